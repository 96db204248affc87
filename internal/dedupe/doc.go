// Package dedupe remembers recent results by key so a repeated request can be
// answered without running it twice.
package dedupe
