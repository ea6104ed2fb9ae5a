// Package sample writes puzzle files made of random base64-encoded lines.
//
// A Corpus holds every line of a source text, base64 encoded. A Generator
// then writes Count files, each holding LinesPerFile lines drawn from the
// corpus without replacement. Lines may repeat across files.
package sample
