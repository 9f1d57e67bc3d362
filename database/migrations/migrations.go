// Package migrations registers the schema migrations. Each file uses init()
// to call migration.Register(); importing the package for side effects is
// enough to make them visible to the runner.
package migrations
