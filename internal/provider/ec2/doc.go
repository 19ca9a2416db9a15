// Package ec2 is the AWS EC2 adapter: a full VPC stack per cluster
// (VPC, public subnet, security group, internet gateway, route table),
// instances discovered by their Name+Cluster tags, Ubuntu AMI resolution
// through the public SSM parameter, and an EC2 Instance Connect key probe
// for health checks.
package ec2
