// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeStorageUnavailable          Code = "storage.open.unavailable"
	CodeStorageSchemaMismatch       Code = "storage.schema.mismatch"
	CodeStorageQueryFailed          Code = "storage.query.failed"
	CodeStorageInvalidConfiguration Code = "storage.configure.invalid_configuration"
	CodeStorageInvalidInput         Code = "storage.ingest.invalid_input"
	CodeStorageClosed               Code = "storage.handle.closed"

	CodeIndexerInconsistent   Code = "indexer.mapping.inconsistent"
	CodeIndexerNotBuilt       Code = "indexer.mapping.not_built"
	CodeIndexerBackendFailure Code = "indexer.backend.failure"

	CodeSourceOpenFailure     Code = "source.open.failure"
	CodeSourceRowInvalid      Code = "source.row.invalid_input"
	CodeSourceManifestInvalid Code = "source.manifest.invalid_format"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeServerRequestInvalid    Code = "server.request.invalid"
	CodeServerPartitionNotFound Code = "server.partition.not_found"
	CodeServerInternalFailure   Code = "server.internal.failure"
	CodeServerStartFailure      Code = "server.start.failure"

	CodeCLIInputInvalid Code = "cli.input.invalid"
	CodeCLISetupFailure Code = "cli.setup.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldPartition(value string) Attr {
	return Field("partition", value)
}

func FieldTable(value string) Attr {
	return Field("table", value)
}

func FieldStatement(value string) Attr {
	return Field("statement", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldChunk(value int) Attr {
	return Field("chunk", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeServerInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsUnavailable reports whether the store could not be opened or created.
func IsUnavailable(err error) bool {
	return reason(CodeOf(err)) == "unavailable"
}

// IsSchemaMismatch reports a row-shape/column mismatch on the write path.
func IsSchemaMismatch(err error) bool {
	return reason(CodeOf(err)) == "mismatch"
}

// IsQueryFailed reports a malformed or backend-rejected statement.
func IsQueryFailed(err error) bool {
	code := CodeOf(err)
	return strings.HasPrefix(string(code), "storage.query.") && reason(code) == "failed"
}

// IsInvalidConfiguration reports contradictory options, such as requesting
// random order together with an ORDER BY column.
func IsInvalidConfiguration(err error) bool {
	return reason(CodeOf(err)) == "invalid_configuration"
}

// IsInconsistentIndexer reports a reused mapping that does not cover the
// identifiers being translated, or translation before any mapping exists.
func IsInconsistentIndexer(err error) bool {
	r := reason(CodeOf(err))
	return r == "inconsistent" || r == "not_built"
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidConfiguration(err) || IsInvalidInput(err) || HasCode(err, CodeServerRequestInvalid):
		return http.StatusBadRequest
	case IsInconsistentIndexer(err):
		return http.StatusConflict
	case IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeServerInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
