// Package e2e runs the catalog against the live converter site through a real
// browser. The tests are behind the e2e build tag:
//
//	go test -tags e2e ./internal/e2e/...
package e2e
