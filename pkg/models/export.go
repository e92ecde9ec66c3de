package models

// The structs below mirror the "Download your information" JSON export.
// Instagram owns this schema; fields not used for analysis are omitted.

// StringListData is the per-relationship payload of an export entry
type StringListData struct {
	Href      string `json:"href"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// RelationshipEntry is one element of followers_N.json or of
// relationships_following in following.json
type RelationshipEntry struct {
	Title          string           `json:"title"`
	MediaListData  []any            `json:"media_list_data,omitempty"`
	StringListData []StringListData `json:"string_list_data"`
}

// FollowingExport is the top-level object of following.json
type FollowingExport struct {
	RelationshipsFollowing *[]RelationshipEntry `json:"relationships_following"`
}
