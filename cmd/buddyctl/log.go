/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"log"
	"os"
)

type logLevel int

const (
	logLevelNone logLevel = iota
	logLevelError
	logLevelInfo
	logLevelDebug
)

var currentLogLevel = logLevelInfo

var (
	debugLogger = log.New(os.Stdout, "[DEBUG] ", log.Ltime)
	infoLogger  = log.New(os.Stdout, "[INFO] ", log.Ltime)
	errorLogger = log.New(os.Stderr, "[ERROR] ", log.Ltime)
)

func logDebug(format string, v ...interface{}) {
	if currentLogLevel >= logLevelDebug {
		debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

func logInfo(format string, v ...interface{}) {
	if currentLogLevel >= logLevelInfo {
		infoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

func logError(format string, v ...interface{}) {
	if currentLogLevel >= logLevelError {
		errorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}
