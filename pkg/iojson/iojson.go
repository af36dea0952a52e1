// Package iojson reads and writes JSON for the command line: match listings,
// validation reports and replacement rule files.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteLine writes obj as a single line of compact JSON (JSON Lines).
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteWith writes obj as indented JSON to w. A marshal failure is reported
// as a JSON error object on ew, since it indicates a bug in the caller.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		msgBytes, _ := json.Marshal("error marshaling in iojson.WriteWith")
		errBytes, _ := json.Marshal(err.Error())
		_, _ = fmt.Fprintf(ew, `{"message":%s,"data":{"json_error":%s}}`+"\n", msgBytes, errBytes)
		return fmt.Errorf("marshal json: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
