// Package source opens the archive location named in settings. Remote
// archives are served over HTTP; local archives are read from disk and
// can be watched for changes.
package source
