// Package imagehost uploads bug report screenshots to an ImgBB-style image
// host or an S3-compatible bucket.
package imagehost
