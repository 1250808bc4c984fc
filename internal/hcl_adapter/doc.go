// Package hcl_adapter implements config.Loader for HCL configuration files.
//
// A file may set the top-level attributes root, extension and
// overview_limit, and contain at most one each of the server, engine and log
// blocks:
//
//	root           = "${home}/graphs"
//	overview_limit = 1000
//
//	server {
//	  addr = "127.0.0.1:7411"
//	}
//
//	engine {
//	  read_only = true
//	}
//
//	log {
//	  level = lower(env.BUGSCOPE_LEVEL)
//	}
//
// Expressions are evaluated with the variables env (the process
// environment), cwd and home, and a few string functions. Attributes that a
// file omits keep the value of the base configuration passed to Load.
// Relative root and log.file paths set by the file are resolved against the
// file's directory.
package hcl_adapter
