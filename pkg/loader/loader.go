package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"igfollowers/pkg/analysis"
	"igfollowers/pkg/errors"
	"igfollowers/pkg/logger"
	"igfollowers/pkg/models"
)

// Source is one uploaded file
type Source struct {
	Name string
	Data []byte
}

// Format identifies how a Source is encoded
type Format string

const (
	FormatFollowersJSON Format = "followers_json"
	FormatFollowingJSON Format = "following_json"
	FormatText          Format = "text"
	FormatUnknown       Format = "unknown"
)

func (f Format) describe() string {
	switch f {
	case FormatFollowersJSON:
		return "followers (followers_N.json)"
	case FormatFollowingJSON:
		return "following (following.json)"
	default:
		return string(f)
	}
}

// DetectFormat picks the parser for a source by extension, then by the first
// non-blank byte
func DetectFormat(src Source) Format {
	switch strings.ToLower(filepath.Ext(src.Name)) {
	case ".txt", ".csv":
		return FormatText
	}

	trimmed := bytes.TrimLeft(bytes.TrimPrefix(src.Data, utf8BOM), " \t\r\n")
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			return FormatFollowersJSON
		case '{':
			return FormatFollowingJSON
		}
	}
	if strings.EqualFold(filepath.Ext(src.Name), ".json") {
		return FormatUnknown
	}
	return FormatText
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFollowers merges one or more follower files into a single set. Any
// malformed file fails the whole load with a parsing error naming the file.
func ParseFollowers(files ...Source) (*analysis.UserSet, error) {
	users := analysis.NewUserSet()
	for _, src := range files {
		set, err := parse(src, FormatFollowersJSON)
		if err != nil {
			return nil, err
		}
		users.Merge(set)
	}
	return users, nil
}

// ParseFollowing loads the following file
func ParseFollowing(file Source) (*analysis.UserSet, error) {
	return parse(file, FormatFollowingJSON)
}

func parse(src Source, want Format) (*analysis.UserSet, error) {
	if len(bytes.TrimSpace(src.Data)) == 0 {
		return nil, errors.NewParseError(src.Name, "file is empty", nil)
	}
	if !utf8.Valid(src.Data) {
		return nil, errors.NewParseError(src.Name, "file is not valid UTF-8", nil)
	}
	data := bytes.TrimPrefix(src.Data, utf8BOM)

	var (
		set *analysis.UserSet
		err error
	)
	format := DetectFormat(src)
	switch {
	case format == FormatUnknown:
		// Neither array nor object: let the expected parser report it
		format = want
	case format != FormatText && format != want:
		return nil, errors.NewParseError(src.Name, "expected a "+want.describe()+" export, got "+format.describe(), nil)
	}

	switch format {
	case FormatText:
		set, err = parseText(src.Name, data)
	case FormatFollowersJSON:
		set, err = parseEntryList(src.Name, data)
	case FormatFollowingJSON:
		set, err = parseFollowingObject(src.Name, data)
	}
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"file":     src.Name,
		"format":   string(format),
		"accounts": set.Len(),
	}).Debug("Parsed export file")

	return set, nil
}

// parseEntryList reads the followers_N.json layout, a bare array of entries
func parseEntryList(name string, data []byte) (*analysis.UserSet, error) {
	var entries []models.RelationshipEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewParseError(name, "expected a JSON array of follower entries", err)
	}
	if entries == nil {
		// json.Unmarshal accepts a bare null
		return nil, errors.NewParseError(name, "expected a JSON array of follower entries", nil)
	}

	users := analysis.NewUserSet()
	for _, entry := range entries {
		added := false
		for _, item := range entry.StringListData {
			if username := strings.TrimSpace(item.Value); username != "" {
				users.Add(models.NewUser(username, unixTime(item.Timestamp)))
				added = true
			}
		}
		// Newer exports leave value empty and move the username to title
		if !added && strings.TrimSpace(entry.Title) != "" {
			users.Add(models.NewUser(entry.Title, firstTimestamp(entry)))
		}
	}
	return users, nil
}

// parseFollowingObject reads the following.json layout
func parseFollowingObject(name string, data []byte) (*analysis.UserSet, error) {
	var export models.FollowingExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, errors.NewParseError(name, "expected a JSON object with relationships_following", err)
	}
	if export.RelationshipsFollowing == nil {
		return nil, errors.NewParseError(name, "missing relationships_following field", nil)
	}

	users := analysis.NewUserSet()
	for _, entry := range *export.RelationshipsFollowing {
		username := strings.TrimSpace(entry.Title)
		if username == "" && len(entry.StringListData) > 0 {
			// Older exports kept the username in value like the followers file
			username = strings.TrimSpace(entry.StringListData[0].Value)
		}
		if username == "" {
			continue
		}
		users.Add(models.NewUser(username, firstTimestamp(entry)))
	}
	return users, nil
}

// parseText reads one username per line. CSV rows use their first column.
// Blank lines, # comments, a leading @ and a "username" header are ignored;
// anything else that is not a valid username fails the file.
func parseText(name string, data []byte) (*analysis.UserSet, error) {
	users := analysis.NewUserSet()

	if strings.EqualFold(filepath.Ext(name), ".csv") {
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.Comment = '#'
		r.TrimLeadingSpace = true
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.NewParseError(name, "invalid CSV", err)
			}
			if len(record) == 0 {
				continue
			}
			line, _ := r.FieldPos(0)
			if err := addTextUsername(users, name, line, record[0]); err != nil {
				return nil, err
			}
		}
		return users, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(text, "#") {
			continue
		}
		if err := addTextUsername(users, name, line, text); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewParseError(name, "cannot read lines", err)
	}
	return users, nil
}

// validUsername matches Instagram's username charset and length
var validUsername = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

func addTextUsername(users *analysis.UserSet, name string, line int, raw string) error {
	username := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if username == "" || strings.EqualFold(username, "username") {
		return nil
	}
	if !validUsername.MatchString(username) {
		return errors.NewParseError(name, fmt.Sprintf("line %d is not an Instagram username: %.40q", line, raw), nil)
	}
	users.Add(models.NewUser(username, time.Time{}))
	return nil
}

func firstTimestamp(entry models.RelationshipEntry) time.Time {
	if len(entry.StringListData) == 0 {
		return time.Time{}
	}
	return unixTime(entry.StringListData[0].Timestamp)
}

func unixTime(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
