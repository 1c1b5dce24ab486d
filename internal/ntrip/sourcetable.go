package ntrip

import (
	"bytes"
	"fmt"
	"net"
	"time"
)

// sourcetableRequest renders the request of spec.md §6's sourcetable
// variant: path "/" substituted for the mountpoint, no Ntrip-Version
// header.
func sourcetableRequest(cfg Config) string {
	return fmt.Sprintf(
		"GET / HTTP/1.1\r\n"+
			"Host: %s\r\n"+
			"User-Agent: %s\r\n"+
			"Authorization: Basic %s\r\n"+
			"\r\n",
		cfg.Caster, userAgent, basicAuth(cfg.Username, cfg.Password))
}

// FetchSourcetable implements component H: the same transport as the
// streaming session but against path "/", accumulating the response
// body (growing buffer doubling strategy, spec.md §4.H) until either
// "ENDSOURCETABLE" appears or the server closes the connection.
func FetchSourcetable(cfg Config) (string, error) {
	conn, derr := dial(cfg)
	if derr != nil {
		return "", derr
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(sourcetableRequest(cfg))); err != nil {
		return "", &SessionError{Class: SendFailed, Err: err}
	}

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	buf := make([]byte, 4096)
	var body bytes.Buffer
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			body.Write(buf[:n])
			if bytes.Contains(body.Bytes(), []byte("ENDSOURCETABLE")) {
				break
			}
		}
		if err != nil {
			break
		}
	}

	return body.String(), nil
}
