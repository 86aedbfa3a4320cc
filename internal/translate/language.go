package translate

// Language pairs an ISO 639-1 code with a human-readable name. The
// name is what prompt-driven backends expect; the code is what the
// detection endpoint returns.
type Language struct {
	Code string
	Name string
}

// AutoCode is the source-language value that requests detection
// instead of naming a language.
const AutoCode = "auto"

// Supported is the set of languages the interpreter can translate
// between. Lookup is by code; unknown codes fall back to the code
// itself as the name.
var Supported = []Language{
	{Code: "ko", Name: "Korean"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh", Name: "Chinese"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "vi", Name: "Vietnamese"},
	{Code: "th", Name: "Thai"},
	{Code: "id", Name: "Indonesian"},
}

// NameFor returns the display name for a language code.
func NameFor(code string) string {
	for _, l := range Supported {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// resolveTarget decides the effective target language for one request.
// When the detected source turns out to be the target language itself,
// translating would be a no-op, so the target is redirected: a Korean
// target falls back to English, any other target falls back to Korean.
func resolveTarget(detected, target string) string {
	if detected != target {
		return target
	}
	if target == "ko" {
		return "en"
	}
	return "ko"
}
