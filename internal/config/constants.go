package config

// SourceFileExt is the canonical source extension for a compilation unit's
// source file. (cmd/tigerc reads no file: it builds its AST in memory.)
const SourceFileExt = ".tig"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".tig", ".tiger"}

// TrimSourceExt removes any recognized source extension from a filename,
// returning the original string if none match.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is a process-wide test flag. Nothing in this module reads or
// sets it; tests get deterministic label/temp numbering by calling
// ir.ResetLabelCounter / ir.ResetTempCounter directly.
var IsTestMode = false

// WordSize is the machine word size in bytes on the only target this
// compiler emits for.
const WordSize = 8

// RegisterNames lists the target's physical general-purpose registers, for
// diagnostics that want a human name rather than a Temp's internal counter.
var RegisterNames = []string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi",
	"rbp", "rsp", "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}
