package document

import "strings"

// AssetRef points an embedded asset at its durable, portable location.
// Only Src survives in markup text; the rest is reconstructed on load.
type AssetRef struct {
	ServiceID string `json:"serviceId"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Transient handle schemes. A transient handle is usable only for in-browser
// display within the originating session and must never be persisted.
var transientSchemes = []string{"blob:", "session:"}

// AssetContext carries the path convention of the asset namespace. It is
// passed explicitly on every call; the reconciler holds no state and
// performs no I/O. Resolving a handle to bytes is the image service's job.
type AssetContext struct {
	// ServiceID names the asset namespace owner for synthesized refs.
	ServiceID string
	// Prefix is the durable-path convention, e.g. "assets/".
	Prefix string
}

// DefaultAssetContext matches the local asset store layout.
var DefaultAssetContext = AssetContext{
	ServiceID: "local",
	Prefix:    "assets/",
}

// IsTransientHandle reports whether url is a session-scoped display handle.
func IsTransientHandle(url string) bool {
	for _, scheme := range transientSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// IsDurablePath reports whether url matches the durable-path convention of
// this context.
func (c AssetContext) IsDurablePath(url string) bool {
	return strings.HasPrefix(url, c.Prefix)
}

// DurableURL returns the URL safe to persist for an embedded asset. When
// url is a transient handle and a reference is attached, the reference's
// durable Src wins. The second return value is false when a transient
// handle has to pass through because no reference is available; the caller
// should log it, the value is not portable outside the session.
func (c AssetContext) DurableURL(url string, ref *AssetRef) (string, bool) {
	if !IsTransientHandle(url) {
		return url, true
	}
	if ref != nil && ref.Src != "" {
		return ref.Src, true
	}
	return url, false
}

// SynthesizeRef builds a minimal reference record for a durable asset path
// found in markup. Dimensions stay zero until the image service resolves
// the asset on first display. URLs outside the asset namespace yield no
// reference; downstream rendering treats them as literals.
func (c AssetContext) SynthesizeRef(url string) *AssetRef {
	if !c.IsDurablePath(url) {
		return nil
	}
	return &AssetRef{
		ServiceID: c.ServiceID,
		Src:       url,
	}
}
