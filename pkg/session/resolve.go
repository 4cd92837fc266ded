// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"net/http"
	"strings"
)

// Resolve selects exactly one upload strategy for a normalized descriptor.
// Precedence, checked in order:
//
//  1. explicit proxy flag        -> Proxy
//  2. headers + PUT + direct URL -> SignedURL
//  3. headers, no direct URL     -> B2Native
//  4. anything else              -> S3Form
//
// A descriptor with contradictory indicators (proxy flag plus B2-style
// headers) resolves to Proxy because the flag is checked first. Resolution
// happens once; no flag is re-inspected downstream.
func Resolve(d *Descriptor, proxyEndpoint string) Plan {
	meta := Meta{
		SessionKey: d.SessionKey,
		StorageKey: d.StorageKey,
		CdnURL:     d.CdnURL,
	}

	if d.UseProxy {
		return ProxyPlan{Session: meta, Endpoint: proxyEndpoint}
	}

	if len(d.Headers) > 0 {
		if strings.EqualFold(d.Method, http.MethodPut) && d.UploadURL != "" {
			return SignedURLPlan{
				Session: meta,
				URL:     d.UploadURL,
				Method:  http.MethodPut,
				Headers: d.Headers,
			}
		}
		if d.UploadURL == "" {
			return B2NativePlan{
				Session: meta,
				URL:     d.Endpoint,
				Headers: d.Headers,
			}
		}
	}

	url := d.UploadURL
	if url == "" {
		url = d.Endpoint
	}
	return S3FormPlan{
		Session: meta,
		URL:     url,
		Fields:  d.Fields,
	}
}
