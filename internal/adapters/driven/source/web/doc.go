// Package web provides an archive source served over HTTP(S). The
// manifest lives at {base}/{manifest-path} and documents at
// {base}/{content-dir}/{identifier}.
package web
