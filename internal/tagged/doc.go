// Package tagged decodes the tagged scripting-mode output of the p4 client
// (`p4 -ztag -s <command>`) into ordered, typed streams.
//
// Each line of that output carries a tag:
//
//	info1: <field> <value>
//	error: <message>
//	text: <content>
//	exit: <code>
//
// terminated by "\n", "\r", "\r\n" or "\n\r". The print command embeds raw
// binary spans whose length is declared by the preceding fileSize field.
//
// A decode either returns a complete Stream, whose last item carries the exit
// status, or an *Error and no stream at all. Error and warning lines emitted
// by p4 are not Go errors: they are message items inside the stream, in the
// order p4 printed them.
//
// The whole output must be buffered before decoding starts.
package tagged
