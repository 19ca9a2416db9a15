// Package naming provides deterministic names for cluster-scoped cloud
// resources.
//
// Network resources follow {cluster}-{type} (vpc, subnet, sg, igw, rt on the
// VPC family; net, fw elsewhere) and the managed key pair is {cluster}-key.
// Deterministic names let every invocation rediscover resources from live
// provider state instead of a local record.
package naming
