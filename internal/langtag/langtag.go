// Package langtag normalizes user-supplied language hints into the
// English language names the whisper CLI accepts.
package langtag

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// transcribableCodes lists the languages the whisper CLI can transcribe.
var transcribableCodes = []string{
	"en", "zh", "de", "es", "ru", "ko", "fr", "ja", "pt", "tr",
	"pl", "ca", "nl", "ar", "sv", "it", "id", "hi", "fi", "vi",
	"he", "uk", "el", "ms", "cs", "ro", "da", "hu", "ta", "no",
	"th", "ur", "hr", "bg", "lt", "la", "mi", "ml", "cy", "sk",
	"te", "fa", "lv", "bn", "sr", "az", "sl", "kn", "et", "mk",
	"br", "eu", "is", "hy", "ne", "mn", "bs", "kk", "sq", "sw",
	"gl", "mr", "pa", "si", "km", "sn", "yo", "so", "af", "oc",
	"ka", "be", "tg", "sd", "gu", "am", "yi", "lo", "uz", "fo",
	"ht", "ps", "tk", "nn", "mt", "sa", "lb", "my", "bo", "tl",
	"mg", "as", "tt", "haw", "ln", "ha", "ba", "jw", "su",
}

var (
	namesOnce  sync.Once
	namesIndex map[string]string
)

// englishNames maps lowercased English language names to their canonical form.
func englishNames() map[string]string {
	namesOnce.Do(func() {
		namer := display.English.Languages()
		namesIndex = make(map[string]string, len(transcribableCodes))
		for _, code := range transcribableCodes {
			tag, err := language.Parse(code)
			if err != nil {
				continue
			}
			name := namer.Name(tag)
			if name == "" {
				continue
			}
			namesIndex[strings.ToLower(name)] = name
		}
	})
	return namesIndex
}

// Normalize converts a language hint (ISO code, BCP 47 tag, or English
// name) into the English language name whisper expects. Empty input
// selects auto-detection and normalizes to the empty string.
func Normalize(hint string) (string, error) {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" {
		return "", nil
	}

	if name, ok := englishNames()[strings.ToLower(trimmed)]; ok {
		return name, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("language hint: unrecognized %q", hint)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("language hint: unrecognized %q", hint)
	}
	name := display.English.Languages().Name(base)
	if name == "" {
		return "", fmt.Errorf("language hint: unrecognized %q", hint)
	}
	if canonical, ok := englishNames()[strings.ToLower(name)]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("language hint: %q is not transcribable", hint)
}
