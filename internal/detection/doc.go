// Package detection suggests where the lettering on a page is.
//
// Speech bubble text shows up as a band of medium edge density: strokes of
// glyphs separated by paper. TextRegions slides windows of typical bubble
// sizes, both horizontal and vertical (tategaki), over a Sobel edge map and
// keeps the windows whose density and run structure look like text.
// Overlapping windows are merged.
//
// The results are candidates for new boxes, not boxes: a caller decides which
// to draw. Clean line art works best; screentone can produce false positives.
package detection
