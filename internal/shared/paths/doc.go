// Package paths provides the on-disk and on-bus layout of knowledge apps.
//
// # Directory Structure
//
//	<CONTENT_DIR>/
//	  └── <app-id>/
//	      ├── content.yaml   (or .yml, .json, .toml)
//	      └── shards/
//	          └── **/*.shard
//
// # Usage
//
//	app := paths.AppPath(cfg.Content.Dir, "com.example.Encyclopedia")
//	if err := app.Validate(); err != nil {
//	    return err
//	}
//	dir := app.Dir()            // <CONTENT_DIR>/com.example.Encyclopedia
//	obj := app.ObjectPath()     // /com/example/Encyclopedia
package paths
