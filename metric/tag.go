package metric

// Tag keys used by this package.
const (
	TagEnv     = "env"
	TagService = "service"
	TagPool    = "pool"
)

// Tag is a single statsd tag.
type Tag struct {
	Key   string
	Value string
}

// NewTag builds a Tag from a key/value pair.
func NewTag(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// TagAsString renders a key/value pair in statsd key:value form.
func TagAsString(key, value string) string {
	return key + ":" + value
}

// BuildTag renders tags into the string slice form the statsd client
// expects.
func BuildTag(tags ...Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagAsString(t.Key, t.Value))
	}
	return out
}
