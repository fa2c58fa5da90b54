// SPDX-License-Identifier: EPL-2.0

// Package storage persists recordings and their metadata.
//
// Two kinds of stores are defined. A BlobStore holds opaque objects such as
// encoded WAV files, addressed by forward-slash keys; Local keeps them on
// disk and S3 in any S3-compatible bucket. A RecordStore holds small
// msgpack-encoded records grouped by kind; Badger persists them and Memory
// keeps them in process for tests and ephemeral servers.
package storage
