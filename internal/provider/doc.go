// Package provider defines the capability contract every cloud adapter
// implements, plus the shared vocabulary the rest of the tool speaks:
// instance and cluster views, run states, the health report, and the error
// taxonomy. Adapters translate their SDK's types into these; nothing above
// the adapter layer touches an SDK type.
package provider
