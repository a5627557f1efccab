// Package config loads navbridge configuration: the route table plus the
// settings of the bridge server and its logger.
//
// Configuration is read from navbridge.json, from a YAML file (.yaml or
// .yml), or from an S3 object in either format.
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "routes": [
//	    {"path": "/", "component": "Home"},
//	    {"path": "/account", "component": "Account", "tabs": [
//	      {"path": "orders", "tabId": "tab-orders", "component": "Orders", "routes": [
//	        {"path": ":id", "component": "Order"}
//	      ]},
//	      {"path": "settings", "tabId": "tab-settings", "component": "Settings"}
//	    ]}
//	  ],
//	  "server": {
//	    "addr": ":8080",
//	    "metricsPath": "/metrics",
//	    "dropStale": true
//	  },
//	  "log": {"level": "info", "format": "text"}
//	}
package config
