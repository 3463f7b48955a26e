/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package registryclient talks to the package registry's read-only JSON API:
// resolving a package name to a download URL, to its ordered version list,
// and to its project id (used only by publishing).
package registryclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// DefaultBaseURL is used when API_BASE_URL is unset.
const DefaultBaseURL = "https://api.soldeer.xyz"

const pageLimit = 1000

// Client is a small HTTP client for the registry's read endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a Client using API_BASE_URL (falling back to DefaultBaseURL)
// and a 30s-timeout http.Client.
func New() *Client {
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return NewWithClient(&http.Client{Timeout: 30 * time.Second}, base)
}

// NewWithClient builds a Client against an explicit http.Client and base URL,
// for testing against a local server.
func NewWithClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

type revision struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

type revisionEnvelope struct {
	Status string     `json:"status"`
	Data   []revision `json:"data"`
}

type project struct {
	ID string `json:"id"`
}

type projectEnvelope struct {
	Status string    `json:"status"`
	Data   []project `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + "/api/v1/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "build registry request").WithDetail("url", u)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "registry request failed").WithDetail("url", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf(errors.CodeRegistryHTTP, "registry returned status %d", resp.StatusCode).
			WithDetail("url", u).WithDetail("status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "decode registry response").WithDetail("url", u)
	}
	return nil
}

// DownloadURL resolves name+exactVersion to its archive download URL via the
// revision-cli endpoint.
func (c *Client) DownloadURL(ctx context.Context, name, exactVersion string) (string, error) {
	var env revisionEnvelope
	params := url.Values{"project_name": {name}, "revision": {exactVersion}}
	if err := c.get(ctx, "revision-cli", params, &env); err != nil {
		return "", err
	}
	if len(env.Data) == 0 {
		return "", errors.Newf(errors.CodeRegistryNotFound, "no download URL found for %s@%s", name, exactVersion).
			WithDetail("name", name).WithDetail("version", exactVersion)
	}
	return env.Data[0].URL, nil
}

// ProjectID resolves name to its registry project id, used only by publishing.
func (c *Client) ProjectID(ctx context.Context, name string) (string, error) {
	var env projectEnvelope
	params := url.Values{"project_name": {name}}
	if err := c.get(ctx, "project", params, &env); err != nil {
		return "", err
	}
	if len(env.Data) == 0 {
		return "", errors.Newf(errors.CodeRegistryNotFound, "project %s not found", name).WithDetail("name", name)
	}
	return env.Data[0].ID, nil
}

// Versions returns every known version string for name, in descending
// creation-date order as the API returns them, paging through the revision
// endpoint until a short page signals the end (rather than assuming one page
// holds all versions).
func (c *Client) Versions(ctx context.Context, name string) ([]string, error) {
	var all []string
	offset := 0
	for {
		var env revisionEnvelope
		params := url.Values{
			"project_name": {name},
			"offset":       {fmt.Sprintf("%d", offset)},
			"limit":        {fmt.Sprintf("%d", pageLimit)},
		}
		if err := c.get(ctx, "revision", params, &env); err != nil {
			return nil, err
		}
		for _, r := range env.Data {
			all = append(all, r.Version)
		}
		if len(env.Data) < pageLimit {
			break
		}
		offset += pageLimit
	}
	if len(all) == 0 {
		return nil, errors.Newf(errors.CodeRegistryNotFound, "no versions found for %s", name).WithDetail("name", name)
	}
	return all, nil
}

// LatestMatching resolves requirement against name's known versions (spec
// §4.E). If every version string parses as semver, versions are sorted
// descending and the first satisfying requirement wins; a bare
// operator-less requirement like "1.2.3" is treated as exact ("=1.2.3"),
// not the semver library's default compatible-range interpretation. If any
// version fails to parse, the whole list is treated as opaque and only an
// exact string match is accepted.
func (c *Client) LatestMatching(ctx context.Context, name, requirement string) (string, error) {
	versions, err := c.Versions(ctx, name)
	if err != nil {
		return "", err
	}

	parsed := make([]*semver.Version, 0, len(versions))
	allSemver := true
	for _, v := range versions {
		sv, err := semver.NewVersion(v)
		if err != nil {
			allSemver = false
			break
		}
		parsed = append(parsed, sv)
	}

	if allSemver {
		constraint, err := parseRequirement(requirement)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeRegistryNoMatch, "invalid version requirement").
				WithDetail("name", name).WithDetail("requirement", requirement)
		}
		sort.Sort(sort.Reverse(semver.Collection(parsed)))
		for _, v := range parsed {
			if constraint.Check(v) {
				return v.Original(), nil
			}
		}
		logger.WithField("name", name).WithField("requirement", requirement).
			Warn("no semver version satisfies requirement")
		return "", errors.Newf(errors.CodeRegistryNoMatch, "no version of %s matches requirement %s", name, requirement).
			WithDetail("name", name).WithDetail("requirement", requirement)
	}

	for _, v := range versions {
		if v == requirement {
			return v, nil
		}
	}
	return "", errors.Newf(errors.CodeRegistryNoMatch, "no version of %s matches requirement %s", name, requirement).
		WithDetail("name", name).WithDetail("requirement", requirement)
}

// parseRequirement builds a semver.Constraints, converting an operator-less
// requirement to an exact-match constraint (spec §9 quirk).
func parseRequirement(requirement string) (*semver.Constraints, error) {
	if hasOperatorPrefix(requirement) {
		return semver.NewConstraint(requirement)
	}
	return semver.NewConstraint("=" + requirement)
}

func hasOperatorPrefix(requirement string) bool {
	for _, prefix := range []string{"=", "^", "~", ">=", "<=", ">", "<", "!="} {
		if len(requirement) >= len(prefix) && requirement[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
