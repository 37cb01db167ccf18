package backup

// snapshotSchema describes an exported snapshot. Both collections are
// required; records are checked field by field after decoding.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["subscriptions", "folders"],
  "properties": {
    "subscriptions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "amount", "date", "repeat"],
        "properties": {
          "id":       {"type": "string", "minLength": 1},
          "name":     {"type": "string"},
          "amount":   {"type": "number", "minimum": 0},
          "date":     {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
          "repeat":   {"type": "string", "enum": ["none", "daily", "weekly", "monthly", "yearly"]},
          "tag":      {"type": "string"},
          "folderId": {"type": ["string", "null"]},
          "link":     {"type": ["string", "null"]},
          "archived": {"type": "boolean"}
        }
      }
    },
    "folders": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id":   {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "icon": {"type": "string"}
        }
      }
    },
    "sortSettings": {
      "type": "object",
      "properties": {
        "field":     {"type": "string", "enum": ["name", "amount", "date", "tag"]},
        "direction": {"type": "string", "enum": ["asc", "desc"]}
      }
    }
  }
}`
