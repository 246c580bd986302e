// Package model holds the wire and storage forms of tweets and likes and
// the codec translating identifiers and timestamps between them.
package model
