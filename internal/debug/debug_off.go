//go:build !parquetdebug

package debug

import "io"

// Reader is a no-op passthrough when built without the parquetdebug tag.
func Reader(reader io.Reader, prefix string) io.Reader { return reader }

// Writer is a no-op passthrough when built without the parquetdebug tag.
func Writer(writer io.Writer, prefix string) io.Writer { return writer }
