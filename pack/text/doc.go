// Package text provides tools that search, rewrite and validate text files.
package text
