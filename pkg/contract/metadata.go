package contract

import "time"

// MergeMetadata overlays required creator fields on top of caller-supplied
// custom fields and injects a timestamp when neither map carries one.
// Required keys win on collision so callers cannot corrupt the fields the
// validator and dispatcher key off. Neither input map is mutated.
func MergeMetadata(required, custom map[string]any, clock Clock) map[string]any {
	if clock == nil {
		clock = time.Now
	}
	merged := make(map[string]any, len(required)+len(custom)+1)
	for k, v := range custom {
		merged[k] = v
	}
	for k, v := range required {
		merged[k] = v
	}
	if _, ok := merged[MetaTimestamp]; !ok {
		merged[MetaTimestamp] = clock().UTC().Format(time.RFC3339)
	}
	return merged
}
