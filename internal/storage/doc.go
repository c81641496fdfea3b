// Package storage persists finished runs on disk.
//
// Each run gets its own directory under the store root:
//
//	<id>/metadata.json  run summary and metrics
//	<id>/config.yaml    config the run was built from
//	<id>/samples.csv    one row per sample
//	<id>/final.xyz      positions after the last step
package storage
