// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate checks a candidate file against upload policy before any
// network call is made. This is the only pipeline stage that can reject
// purely from local information.
package validate

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/brightclass/mediaup/pkg/mediaerr"
)

// Category is the target media class a policy applies to.
type Category string

const (
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
	CategoryImage Category = "image"
)

// Policy is a size ceiling plus a content-type allow-list. Types entries
// ending in "/" match any subtype ("video/" matches "video/mp4").
type Policy struct {
	MaxBytes int64
	Types    []string
}

// GenericVideo is the policy applied to course media uploads.
var GenericVideo = Policy{
	MaxBytes: 500 * humanize.MiByte,
	Types:    []string{"video/"},
}

// Reflection policies carry category-specific ceilings. They are distinct
// from GenericVideo and must not be merged with it: a 200 MB video passes the
// generic check but fails the reflection one.
var reflectionPolicies = map[Category]Policy{
	CategoryAudio: {MaxBytes: 50 * humanize.MiByte, Types: []string{"audio/"}},
	CategoryImage: {MaxBytes: 10 * humanize.MiByte, Types: []string{"image/"}},
	CategoryVideo: {MaxBytes: 100 * humanize.MiByte, Types: []string{"video/"}},
}

// ReflectionPolicy returns the reflection upload policy for a category.
func ReflectionPolicy(c Category) (Policy, bool) {
	p, ok := reflectionPolicies[c]
	return p, ok
}

// Check validates a declared content type and byte size against the policy.
// The returned error names the specific limit violated.
func (p Policy) Check(contentType string, size int64) error {
	if !p.allows(contentType) {
		return mediaerr.Field(mediaerr.ErrValidation, "contentType",
			"type "+contentType+" is not allowed")
	}
	if size <= 0 {
		return mediaerr.Field(mediaerr.ErrValidation, "fileSize", "file is empty")
	}
	if size > p.MaxBytes {
		return mediaerr.Field(mediaerr.ErrValidation, "fileSize",
			"file exceeds the "+humanize.IBytes(uint64(p.MaxBytes))+" limit")
	}
	return nil
}

func (p Policy) allows(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, t := range p.Types {
		if strings.HasSuffix(t, "/") {
			if strings.HasPrefix(ct, t) {
				return true
			}
		} else if ct == t {
			return true
		}
	}
	return false
}
