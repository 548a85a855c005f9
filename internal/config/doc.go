// Package config provides configuration loading for the nodetrace CLI.
//
// The configuration is stored in nodetrace.yaml at the project root.
// Values are layered, lowest to highest precedence:
//
//  1. built-in defaults
//  2. nodetrace.yaml (or nodetrace.yml)
//  3. NODETRACE_* environment variables
//  4. command line flags that were explicitly set
//
// # Configuration File Structure
//
//	name: tables-demo
//	inspector:
//	  host: localhost
//	  port: 7070
//	log:
//	  level: debug
//	  format: text
//	  debug: true
//	  max_array_items: 3
//	  max_string_length: 10
//	  component_attr: component
//	metrics:
//	  enabled: true
//	  namespace: nodetrace
//	tracing:
//	  enabled: false
//	  notifications: false
//
// Environment variables map the first underscore after the prefix to a
// section separator: NODETRACE_INSPECTOR_PORT sets inspector.port and
// NODETRACE_LOG_MAX_ARRAY_ITEMS sets log.max_array_items.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.Address())
package config
