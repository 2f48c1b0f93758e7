package input

// inputSchema is the JSON Schema the raw actor input is validated against
// before anything else looks at it. Filter keys not listed here are still
// accepted; the schema constrains types, not the key set.
const inputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "useAI":         {"type": "boolean"},
    "naturalQuery":  {"type": "string"},
    "googleApiKey":  {"type": "string"},
    "cursor":        {"type": "string"},
    "count":         {"type": "integer", "minimum": 1, "maximum": 24},
    "maxPages":      {"type": "integer", "minimum": 1},
    "dedupeResults": {"type": "boolean"},

    "q":          {"type": "string"},
    "user":       {"type": "string"},
    "tags":       {"type": "array", "items": {"type": "string"}},
    "categories": {"type": "array", "items": {"type": "string"}},

    "downloadable":      {"type": "boolean"},
    "animated":          {"type": "boolean"},
    "rigged":            {"type": "boolean"},
    "staffpicked":       {"type": "boolean"},
    "sound":             {"type": "boolean"},
    "archives_flavours": {"type": "boolean"},

    "pbr_type":               {"type": "string"},
    "file_format":            {"type": "string"},
    "license":                {"type": "string"},
    "sort_by":                {"type": "string"},
    "available_archive_type": {"type": "string"},
    "collection":             {"type": "string"},

    "min_face_count":                  {"type": "integer", "minimum": 0},
    "max_face_count":                  {"type": "integer", "minimum": 0},
    "max_uv_layer_count":              {"type": "integer", "minimum": 0},
    "archives_max_size":               {"type": "integer", "minimum": 0},
    "archives_max_face_count":         {"type": "integer", "minimum": 0},
    "archives_max_vertex_count":       {"type": "integer", "minimum": 0},
    "archives_max_texture_count":      {"type": "integer", "minimum": 0},
    "archives_texture_max_resolution": {"type": "integer", "minimum": 0},

    "date": {"type": ["integer", "string"]}
  }
}`
