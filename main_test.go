package main

import (
	"io/fs"
	"net"
	"testing"

	"github.com/soar/touchjoy/internal/test"
)

func TestLocalURL(t *testing.T) {
	test.ExpectEquality(t, localURL(&net.TCPAddr{IP: net.IPv4zero, Port: 8080}), "http://localhost:8080/")
	test.ExpectEquality(t, localURL(&net.TCPAddr{IP: net.IPv6unspecified, Port: 80}), "http://localhost:80/")
	test.ExpectEquality(t, localURL(&net.TCPAddr{IP: net.IPv4(192, 168, 1, 5), Port: 9000}), "http://192.168.1.5:9000/")
}

func TestFrontendFS(t *testing.T) {
	for _, name := range []string{"index.html", "touch.js", "viewer.html", "viewer.js", "style.css"} {
		_, err := fs.Stat(getFrontendFS(), name)
		test.ExpectSuccess(t, err)
	}
}
