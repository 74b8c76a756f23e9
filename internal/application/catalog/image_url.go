package catalog

import (
	"strconv"
	"strings"
)

// DefaultImageWidth is used when no positive width is given
const DefaultImageWidth = 800

const cloudinaryHost = "res.cloudinary.com"

// OptimizeImageURL asks Cloudinary for a scaled, auto-format, auto-quality
// rendition of url. URLs from other hosts are returned unchanged.
func OptimizeImageURL(url string, width int) string {
	if url == "" {
		return ""
	}
	if !strings.Contains(url, cloudinaryHost) || !strings.Contains(url, "/upload/") {
		return url
	}
	if width <= 0 {
		width = DefaultImageWidth
	}
	transform := "c_scale,w_" + strconv.Itoa(width) + ",q_auto,f_auto/"
	return strings.Replace(url, "/upload/", "/upload/"+transform, 1)
}
