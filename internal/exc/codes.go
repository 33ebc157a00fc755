// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package exc

const (
	CodeUnknownFatal                  = "A0000"
	CodeFileNotFound                  = "A0001"
	CodeUnsuportedFileSystemOperation = "A0002"
	CodePermissionDenied              = "A0003"
	CodeUnsupportedFileFormat         = "A0004"
	CodeUnexpectedEOF                 = "A0005"
	CodeInvalidNumber                 = "A0006"
	CodeInvalidCharacter              = "A0007"
	CodeUnbalancedDelimiter           = "A0008"
	CodeWrongDelimiter                = "A0009"
	CodeUnexpectedToken               = "A0010"
	CodeUnknownField                  = "A0011"
	CodeDuplicateField                = "A0012"
	CodeDuplicateName                 = "A0013"
	CodeMissingField                  = "A0014"
	CodeEmptyFragment                 = "A0015"
	CodeExpectedBool                  = "A0016"
	CodeExpectedInteger               = "A0017"
	CodeIntegerOutOfRange             = "A0018"
	CodeUnresolvedResource            = "A0019"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
