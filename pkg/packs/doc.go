// Package packs loads YAML fact packs from disk.
//
// A fact pack is a small YAML document:
//
//	name: forest
//	version: 1
//	facts:
//	  - "wolves live here"
//	  - "$if random(0.3): a wolf howls in the distance"
//
// Packs are linted at load time: every conditional fact has its
// expression compiled so authors see all problems in one pass, with the
// offending expression quoted in each finding. The Registry holds the
// current set of packs and can hot-reload when files change, driven by
// a debounced fsnotify watcher.
package packs
