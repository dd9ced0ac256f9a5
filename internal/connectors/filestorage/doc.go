// Package filestorage syncs Dropbox file changes using the
// list_folder cursor protocol.
package filestorage
