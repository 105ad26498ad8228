// Package imaging loads manga pages and prepares pixel data for the rest of
// the overlay pipeline.
//
// Coordinates are image pixels with (0,0) at the top-left corner. Regions
// passed in as image.Rectangle are half-open: Min is inclusive, Max exclusive.
//
// Every function here returns fresh buffers. The loaded page is never written
// to, so crops handed to the recognizer and frames handed to the compositor
// can be used from other goroutines without locking.
package imaging
