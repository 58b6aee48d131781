package file

// recordArraySchema is the structural JSON Schema for the file provider's
// raw record array — it validates shape only ("key" is a string, "value"
// is present), never the caller's decoded value type, which is out of
// this core's scope.
const recordArraySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["key", "value"],
    "properties": {
      "key": {"type": "string", "minLength": 1},
      "priority": {"type": "integer"},
      "filter": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      },
      "value": {}
    },
    "additionalProperties": false
  }
}`
