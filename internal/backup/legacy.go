package backup

// upgradeLegacy rewrites documents exported by the browser version of the
// tracker in place. Those files name the anchor date "dueDate" and store the
// sort as {option, order}, where a null option means no saved sort.
// Documents already in the current shape pass through unchanged.
func upgradeLegacy(doc any) {
	root, ok := doc.(map[string]any)
	if !ok {
		return
	}

	if subs, ok := root["subscriptions"].([]any); ok {
		for _, item := range subs {
			sub, ok := item.(map[string]any)
			if !ok {
				continue
			}
			due, hasDue := sub["dueDate"]
			if !hasDue {
				continue
			}
			if _, hasDate := sub["date"]; !hasDate {
				sub["date"] = due
			}
			delete(sub, "dueDate")
		}
	}

	sort, ok := root["sortSettings"].(map[string]any)
	if !ok {
		if v, present := root["sortSettings"]; present && v == nil {
			delete(root, "sortSettings")
		}
		return
	}
	if _, current := sort["field"]; current {
		return
	}
	option, hasOption := sort["option"]
	if !hasOption && sort["order"] == nil {
		return
	}
	field, _ := option.(string)
	if field == "" {
		delete(root, "sortSettings")
		return
	}
	direction, _ := sort["order"].(string)
	if direction == "" {
		direction = "asc"
	}
	root["sortSettings"] = map[string]any{"field": field, "direction": direction}
}
