package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mctestc/internal/errors"
)

// ConvertDiagnostics turns a compile's CompilerErrors into LSP diagnostics.
// Position is 1-based in CompilerError and 0-based in the LSP wire format.
func ConvertDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, e := range errs {
		length := e.Length
		if length <= 0 {
			length = 1
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(max0(e.Position.Line - 1)),
					Character: uint32(max0(e.Position.Column - 1)),
				},
				End: protocol.Position{
					Line:      uint32(max0(e.Position.Line - 1)),
					Character: uint32(max0(e.Position.Column-1) + length),
				},
			},
			Severity: severityFor(e.Level),
			Source:   ptrString("mctestc"),
			Message:  formatMessage(e),
		})
	}

	return diagnostics
}

func severityFor(level errors.ErrorLevel) *protocol.DiagnosticSeverity {
	var s protocol.DiagnosticSeverity
	switch level {
	case errors.Error:
		s = protocol.DiagnosticSeverityError
	case errors.Warning:
		s = protocol.DiagnosticSeverityWarning
	default:
		s = protocol.DiagnosticSeverityInformation
	}
	return &s
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func ptrString(s string) *string { return &s }

// formatMessage prefixes the error code, matching the [E0100]-style tag the
// CLI's colored reporter prints for the same diagnostic.
func formatMessage(e errors.CompilerError) string {
	if e.Code == "" {
		return e.Message
	}
	return "[" + e.Code + "] " + e.Message
}
