// Package testutil holds helpers shared by asprules tests.
package testutil
