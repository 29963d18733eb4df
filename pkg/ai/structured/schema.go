package structured

// JSON schemas sent with json_schema structured output. Strict mode requires
// every property to be listed in required and additionalProperties false.

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func array(items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": items}
}

var str = map[string]interface{}{"type": "string"}

var FlashcardsSchema = object(map[string]interface{}{
	"cards": array(object(map[string]interface{}{
		"question": str,
		"answer":   str,
	}, "question", "answer")),
}, "cards")

var QuizSchema = object(map[string]interface{}{
	"questions": array(object(map[string]interface{}{
		"question":      str,
		"options":       array(str),
		"correct_index": map[string]interface{}{"type": "integer"},
		"hint":          str,
		"explanation":   str,
	}, "question", "options", "correct_index", "hint", "explanation")),
}, "questions")

// mindMapNodeSchema unrolls the tree to a fixed depth; strict schemas cannot recurse freely.
func mindMapNodeSchema(depth int) map[string]interface{} {
	props := map[string]interface{}{"topic": str}
	required := []string{"topic"}
	if depth > 1 {
		props["children"] = array(mindMapNodeSchema(depth - 1))
		required = append(required, "children")
	}
	return object(props, required...)
}

var MindMapSchema = object(map[string]interface{}{
	"title": str,
	"root":  mindMapNodeSchema(MaxMindMapDepth),
}, "title", "root")
