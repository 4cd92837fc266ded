// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package session negotiates an upload session with the backend and resolves
// the server's loosely-shaped descriptor into exactly one upload plan.
package session

// Strategy identifies one of the four mutually exclusive upload protocols.
type Strategy string

const (
	StrategyProxy     Strategy = "proxy"
	StrategySignedURL Strategy = "signed_url"
	StrategyB2Native  Strategy = "b2_native"
	StrategyS3Form    Strategy = "s3_form"
)

// Meta carries the fields every plan shares. StorageKey is non-empty for any
// plan returned by Resolve.
type Meta struct {
	SessionKey string
	StorageKey string
	CdnURL     string
}

// Plan is a resolved, single-use upload plan. Each variant carries only the
// fields its protocol needs; no flag combination survives resolution.
// A plan is consumed by exactly one executor and discarded — a failed attempt
// requires a fresh negotiation.
type Plan interface {
	Strategy() Strategy
	Meta() Meta
}

// ProxyPlan routes the file through the application backend to sidestep
// cross-origin restrictions on the storage provider.
type ProxyPlan struct {
	Session Meta

	// Endpoint is the backend proxy URL the multipart body is posted to.
	Endpoint string
}

func (p ProxyPlan) Strategy() Strategy { return StrategyProxy }
func (p ProxyPlan) Meta() Meta         { return p.Session }

// SignedURLPlan sends the raw file bytes with the session's method and
// headers directly to a presigned URL. Headers are attached verbatim: a
// placeholder hash value on a signed-url session is sent unmodified.
type SignedURLPlan struct {
	Session Meta

	URL     string
	Method  string
	Headers map[string]string
}

func (p SignedURLPlan) Strategy() Strategy { return StrategySignedURL }
func (p SignedURLPlan) Meta() Meta         { return p.Session }

// B2NativePlan sends raw bytes to the storage endpoint with the session's
// headers, after substituting the real SHA-1 digest of the body for the
// placeholder in the content-hash header.
type B2NativePlan struct {
	Session Meta

	URL     string
	Headers map[string]string
}

func (p B2NativePlan) Strategy() Strategy { return StrategyB2Native }
func (p B2NativePlan) Meta() Meta         { return p.Session }

// S3FormPlan posts a multipart form whose first parts are the presigned
// fields, in the order the backend supplied them, with the file last.
type S3FormPlan struct {
	Session Meta

	URL    string
	Fields []FormField
}

func (p S3FormPlan) Strategy() Strategy { return StrategyS3Form }
func (p S3FormPlan) Meta() Meta         { return p.Session }

// FormField is one presigned form field. Order matters to the receiving
// backend, so fields are a slice, never a map.
type FormField struct {
	Name  string
	Value string
}
