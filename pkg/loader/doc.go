// Package loader turns uploaded Instagram exports into user sets.
//
// Instagram's "Download your information" archive ships followers as one or
// more followers_N.json files (a JSON array of entries) and followings as a
// single following.json object keyed by relationships_following. Plain text
// and CSV lists with one username per line are accepted as well.
//
// Usage:
//
//	followers, err := loader.ParseFollowers(
//	    loader.Source{Name: "followers_1.json", Data: data1},
//	    loader.Source{Name: "followers_2.json", Data: data2},
//	)
//	if err != nil {
//	    // errors.IsType(err, errors.ErrorTypeParsing)
//	}
//	following, err := loader.ParseFollowing(loader.Source{Name: "following.json", Data: data})
//
// A file that parses but lists no accounts produces an empty set, not an error.
package loader
