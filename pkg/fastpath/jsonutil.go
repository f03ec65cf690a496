package fastpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type jsonFrame struct {
	isObject  bool
	expectKey bool
	seen      map[string]bool
}

// checkNoDuplicateKeysJSON parses data as JSON using a streaming decoder
// so arbitrarily deep nesting never blows the call stack, and rejects a
// document where any single object repeats a key, at any depth.
func checkNoDuplicateKeysJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var stack []*jsonFrame

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.isObject && top.expectKey {
				key, ok := tok.(string)
				if !ok {
					return fmt.Errorf("invalid JSON: expected object key")
				}
				if top.seen[key] {
					return fmt.Errorf("duplicate key %q", key)
				}
				top.seen[key] = true
				top.expectKey = false
				continue
			}
		}

		switch d := tok.(type) {
		case json.Delim:
			switch d {
			case '{':
				stack = append(stack, &jsonFrame{isObject: true, expectKey: true, seen: map[string]bool{}})
			case '[':
				stack = append(stack, &jsonFrame{isObject: false})
			case '}', ']':
				if len(stack) == 0 {
					return fmt.Errorf("invalid JSON: unbalanced brackets")
				}
				stack = stack[:len(stack)-1]
				if len(stack) > 0 && stack[len(stack)-1].isObject {
					stack[len(stack)-1].expectKey = true
				}
			}
		default:
			if len(stack) > 0 && stack[len(stack)-1].isObject {
				stack[len(stack)-1].expectKey = true
			}
		}
	}

	if len(stack) != 0 {
		return fmt.Errorf("invalid JSON: unbalanced brackets")
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing content")
	}
	return nil
}
