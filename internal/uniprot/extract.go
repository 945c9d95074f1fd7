// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package uniprot

// FunctionComment is the commentType whose texts are used when an entry
// carries no keywords.
const FunctionComment = "FUNCTION"

// ExtractKeywords returns the descriptive tags of an entry document.
//
// The keywords list is used when it yields at least one value. Otherwise the
// texts of every FUNCTION comment are concatenated in document order. The
// result is never nil. Elements of an unexpected shape are ignored.
func ExtractKeywords(doc map[string]any) []string {
	if kw := keywordValues(doc); len(kw) > 0 {
		return kw
	}
	if fn := functionTexts(doc); len(fn) > 0 {
		return fn
	}
	return []string{}
}

func keywordValues(doc map[string]any) []string {
	list, ok := doc["keywords"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range list {
		if v, ok := stringField(el, "value"); ok {
			out = append(out, v)
		}
	}
	return out
}

func functionTexts(doc map[string]any) []string {
	comments, ok := doc["comments"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, c := range comments {
		comment, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := comment["commentType"].(string); t != FunctionComment {
			continue
		}
		texts, ok := comment["texts"].([]any)
		if !ok {
			continue
		}
		for _, text := range texts {
			if v, ok := stringField(text, "value"); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

// stringField returns el[key] when el is an object and the field is a string.
func stringField(el any, key string) (string, bool) {
	m, ok := el.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok
}
