// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrPolicy is wrapped by every upload policy violation.
var ErrPolicy = errors.New("upload rejected")

// ErrTooLarge is returned when a file exceeds the size limit of its kind.
var ErrTooLarge = fmt.Errorf("%w: file too large", ErrPolicy)

const (
	// MaxImageSize is the upload limit for images (4 MB).
	MaxImageSize = 4 << 20

	// MaxVideoSize is the upload limit for videos (64 MB).
	MaxVideoSize = 64 << 20

	// maxImagePixels caps decoded dimensions to prevent memory bombs.
	maxImagePixels = 50_000_000
)

// Kind groups the content types an upload may have.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Rule is the limit and extension for one accepted content type.
type Rule struct {
	Kind    Kind
	MaxSize int64
	Ext     string
}

// Policy decides which uploads are accepted.
type Policy struct {
	Rules map[string]Rule // keyed by content type
}

// DefaultPolicy accepts common web images up to 4 MB and videos up to 64 MB.
func DefaultPolicy() *Policy {
	return &Policy{Rules: map[string]Rule{
		"image/jpeg":      {KindImage, MaxImageSize, ".jpg"},
		"image/png":       {KindImage, MaxImageSize, ".png"},
		"image/gif":       {KindImage, MaxImageSize, ".gif"},
		"image/webp":      {KindImage, MaxImageSize, ".webp"},
		"video/mp4":       {KindVideo, MaxVideoSize, ".mp4"},
		"video/webm":      {KindVideo, MaxVideoSize, ".webm"},
		"video/quicktime": {KindVideo, MaxVideoSize, ".mov"},
	}}
}

// MaxSize returns the largest size any rule allows. Handlers use it to cap
// request bodies before parsing.
func (p *Policy) MaxSize() int64 {
	var largest int64
	for _, r := range p.Rules {
		largest = max(largest, r.MaxSize)
	}
	return largest
}

// Check sniffs the content type of data and validates it against the
// policy. It returns the content type and the file extension to store the
// object under.
func (p *Policy) Check(filename string, data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty file", ErrPolicy)
	}

	contentType = DetectContentType(data)
	rule, ok := p.Rules[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: file type %q is not allowed", ErrPolicy, contentType)
	}
	if int64(len(data)) > rule.MaxSize {
		return "", "", fmt.Errorf("%w: %s over %d MB", ErrTooLarge, rule.Kind, rule.MaxSize>>20)
	}

	if rule.Kind == KindImage {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return "", "", fmt.Errorf("%w: unreadable image: %v", ErrPolicy, err)
		}
		if cfg.Width*cfg.Height > maxImagePixels {
			return "", "", fmt.Errorf("%w: image dimensions %dx%d too large", ErrPolicy, cfg.Width, cfg.Height)
		}
	}

	ext = strings.ToLower(filepath.Ext(filename))
	if ext == "" || !extMatches(contentType, ext) {
		ext = rule.Ext
	}
	return contentType, ext, nil
}

// extMatches reports whether a user-supplied extension fits the sniffed type.
func extMatches(contentType, ext string) bool {
	switch contentType {
	case "image/jpeg":
		return ext == ".jpg" || ext == ".jpeg"
	case "video/quicktime":
		return ext == ".mov" || ext == ".qt"
	default:
		return "."+contentType[strings.Index(contentType, "/")+1:] == ext
	}
}

// DetectContentType sniffs data like http.DetectContentType and also
// recognizes QuickTime containers, which the standard sniffer reports as
// application/octet-stream.
func DetectContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if ct == "application/octet-stream" && len(data) >= 12 &&
		string(data[4:8]) == "ftyp" && string(data[8:12]) == "qt  " {
		return "video/quicktime"
	}
	return ct
}
