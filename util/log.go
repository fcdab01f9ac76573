// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Severity is a syslog-style severity level for audit messages
type Severity int

// Audit message severities
const (
	FATAL Severity = iota + 2
	ERROR
	WARN
	NOTICE
	INFO
	DEBUG
)

// LogContext provides the identifying information every log entry carries
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a minimal LogContext for operations with no richer scope
type BasicLogContext struct {
	sessionID   string
	sessionOnce sync.Once
}

// AppName returns an empty string
func (c *BasicLogContext) AppName() string {
	return ""
}

// SessionID returns a Session ID, creating one if needed. A context may be
// shared across goroutines, so the lazy creation is synchronized.
func (c *BasicLogContext) SessionID() string {
	c.sessionOnce.Do(func() {
		c.sessionID = uuid.NewString()
	})
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// LogAuditInput is the information needed to build an audit log entry
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

var logger = log.New(os.Stdout, "", log.LstdFlags)

func logPrefix(context LogContext) string {
	prefix := context.AppName()
	if prefix == "" {
		prefix = "-"
	}
	return fmt.Sprintf("[%s:%s]", prefix, context.SessionID())
}

// LogInfo logs an informational message
func LogInfo(context LogContext, message string) {
	logger.Printf("%s INFO %s", logPrefix(context), message)
}

// LogAlert logs a message that needs operator attention
func LogAlert(context LogContext, message string) {
	logger.Printf("%s ALERT %s", logPrefix(context), message)
}

// LogAudit logs a structured actor/action/actee audit entry
func LogAudit(context LogContext, input LogAuditInput) {
	logger.Printf("%s AUDIT[%d] actor=%q action=%q actee=%q %s",
		logPrefix(context), input.Severity, input.Actor, input.Action, input.Actee, input.Message)
}

// LogSimpleErr logs a message and its underlying error, and returns an
// error wrapping both so the caller can propagate a single value
func LogSimpleErr(context LogContext, message string, err error) error {
	logger.Printf("%s ERROR %s %v", logPrefix(context), message, err)
	return fmt.Errorf("%s: %w", message, err)
}
