package ec2

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vmcli/vmcli/internal/network"
	"github.com/vmcli/vmcli/internal/tags"
	"github.com/vmcli/vmcli/internal/util/naming"
)

const worldCIDR = "0.0.0.0/0"

// template declares the full VPC stack for the cluster. Every Find keys off
// the Name+Cluster tag pair, so repeated runs converge and teardown works
// from live state alone.
func (a *Adapter) template() *network.Template {
	return &network.Template{
		Provider: a.Name(),
		Cluster:  a.cfg.ClusterName,
		Steps: []network.Step{
			{
				Kind:   network.KindNetwork,
				Find:   a.findVPC,
				Create: a.createVPC,
				Delete: a.deleteVPC,
			},
			{
				Kind:   network.KindSubnet,
				Find:   a.findSubnet,
				Create: a.createSubnet,
				Delete: a.deleteSubnet,
			},
			{
				Kind:   network.KindSecurityBoundary,
				Find:   a.findSecurityGroup,
				Create: a.createSecurityGroup,
				Delete: a.deleteSecurityGroup,
			},
			{
				Kind:   network.KindGateway,
				Find:   a.findGateway,
				Create: a.createGateway,
				Delete: a.deleteGateway,
			},
			{
				Kind:   network.KindRouteTable,
				Find:   a.findRouteTable,
				Create: a.createRouteTable,
				Delete: a.deleteRouteTable,
			},
		},
	}
}

// nameFilters matches resources carrying the cluster identity plus the
// deterministic resource name.
func (a *Adapter) nameFilters(resourceName string) []types.Filter {
	return []types.Filter{
		{Name: aws.String("tag:" + tags.KeyCluster), Values: []string{a.cfg.ClusterName}},
		{Name: aws.String("tag:" + tags.KeyName), Values: []string{resourceName}},
	}
}

// tagSpec builds the tag specification for a new resource, sorted so request
// bodies are stable.
func (a *Adapter) tagSpec(rt types.ResourceType, resourceName string) []types.TagSpecification {
	m := tags.ForCluster(a.cfg.ClusterName).WithName(resourceName).Build()
	tt := make([]types.Tag, 0, len(m))
	for k, v := range m {
		tt = append(tt, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	sort.Slice(tt, func(i, j int) bool { return aws.ToString(tt[i].Key) < aws.ToString(tt[j].Key) })
	return []types.TagSpecification{{ResourceType: rt, Tags: tt}}
}

func (a *Adapter) findVPC(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*awsec2.DescribeVpcsOutput, error) {
		return a.clients.Network.DescribeVpcs(ctx, &awsec2.DescribeVpcsInput{
			Filters: a.nameFilters(naming.Network(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	switch len(out.Vpcs) {
	case 0:
		return "", nil
	case 1:
		return aws.ToString(out.Vpcs[0].VpcId), nil
	default:
		return "", fmt.Errorf("%d VPCs tagged for cluster %q", len(out.Vpcs), a.cfg.ClusterName)
	}
}

func (a *Adapter) createVPC(ctx context.Context, _ *network.View) (string, error) {
	out, err := call(ctx, func() (*awsec2.CreateVpcOutput, error) {
		return a.clients.Network.CreateVpc(ctx, &awsec2.CreateVpcInput{
			CidrBlock:         aws.String(network.CIDRNetwork),
			TagSpecifications: a.tagSpec(types.ResourceTypeVpc, naming.Network(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Vpc.VpcId), nil
}

func (a *Adapter) deleteVPC(ctx context.Context, id string) error {
	_, err := call(ctx, func() (*awsec2.DeleteVpcOutput, error) {
		return a.clients.Network.DeleteVpc(ctx, &awsec2.DeleteVpcInput{VpcId: aws.String(id)})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (a *Adapter) findSubnet(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*awsec2.DescribeSubnetsOutput, error) {
		return a.clients.Network.DescribeSubnets(ctx, &awsec2.DescribeSubnetsInput{
			Filters: a.nameFilters(naming.Subnet(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	switch len(out.Subnets) {
	case 0:
		return "", nil
	case 1:
		return aws.ToString(out.Subnets[0].SubnetId), nil
	default:
		return "", fmt.Errorf("%d subnets tagged for cluster %q", len(out.Subnets), a.cfg.ClusterName)
	}
}

func (a *Adapter) createSubnet(ctx context.Context, view *network.View) (string, error) {
	out, err := call(ctx, func() (*awsec2.CreateSubnetOutput, error) {
		return a.clients.Network.CreateSubnet(ctx, &awsec2.CreateSubnetInput{
			VpcId:             aws.String(view.NetworkID),
			CidrBlock:         aws.String(network.CIDRSubnet),
			TagSpecifications: a.tagSpec(types.ResourceTypeSubnet, naming.Subnet(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	id := aws.ToString(out.Subnet.SubnetId)

	// Instances launched here get public addresses without per-launch flags.
	_, err = call(ctx, func() (*awsec2.ModifySubnetAttributeOutput, error) {
		return a.clients.Network.ModifySubnetAttribute(ctx, &awsec2.ModifySubnetAttributeInput{
			SubnetId:            aws.String(id),
			MapPublicIpOnLaunch: &types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
	})
	if err != nil {
		return id, fmt.Errorf("enable public addressing on %s: %w", id, err)
	}
	return id, nil
}

func (a *Adapter) deleteSubnet(ctx context.Context, id string) error {
	_, err := call(ctx, func() (*awsec2.DeleteSubnetOutput, error) {
		return a.clients.Network.DeleteSubnet(ctx, &awsec2.DeleteSubnetInput{SubnetId: aws.String(id)})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (a *Adapter) findSecurityGroup(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*awsec2.DescribeSecurityGroupsOutput, error) {
		return a.clients.Network.DescribeSecurityGroups(ctx, &awsec2.DescribeSecurityGroupsInput{
			Filters: a.nameFilters(naming.SecurityBoundary(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	switch len(out.SecurityGroups) {
	case 0:
		return "", nil
	case 1:
		return aws.ToString(out.SecurityGroups[0].GroupId), nil
	default:
		return "", fmt.Errorf("%d security groups tagged for cluster %q", len(out.SecurityGroups), a.cfg.ClusterName)
	}
}

func (a *Adapter) createSecurityGroup(ctx context.Context, view *network.View) (string, error) {
	name := naming.SecurityBoundary(a.cfg.ClusterName)
	out, err := call(ctx, func() (*awsec2.CreateSecurityGroupOutput, error) {
		return a.clients.Network.CreateSecurityGroup(ctx, &awsec2.CreateSecurityGroupInput{
			GroupName:         aws.String(name),
			Description:       aws.String("cluster " + a.cfg.ClusterName + " instances"),
			VpcId:             aws.String(view.NetworkID),
			TagSpecifications: a.tagSpec(types.ResourceTypeSecurityGroup, name),
		})
	})
	if err != nil {
		return "", err
	}
	id := aws.ToString(out.GroupId)

	perms := make([]types.IpPermission, 0, len(network.IngressPorts))
	for _, port := range network.IngressPorts {
		perms = append(perms, types.IpPermission{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(int32(port)),
			ToPort:     aws.Int32(int32(port)),
			IpRanges:   []types.IpRange{{CidrIp: aws.String(worldCIDR)}},
		})
	}
	_, err = call(ctx, func() (*awsec2.AuthorizeSecurityGroupIngressOutput, error) {
		return a.clients.Network.AuthorizeSecurityGroupIngress(ctx, &awsec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(id),
			IpPermissions: perms,
		})
	})
	if err != nil {
		return id, fmt.Errorf("authorize ingress on %s: %w", id, err)
	}
	return id, nil
}

func (a *Adapter) deleteSecurityGroup(ctx context.Context, id string) error {
	_, err := call(ctx, func() (*awsec2.DeleteSecurityGroupOutput, error) {
		return a.clients.Network.DeleteSecurityGroup(ctx, &awsec2.DeleteSecurityGroupInput{GroupId: aws.String(id)})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (a *Adapter) findGateway(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*awsec2.DescribeInternetGatewaysOutput, error) {
		return a.clients.Network.DescribeInternetGateways(ctx, &awsec2.DescribeInternetGatewaysInput{
			Filters: a.nameFilters(naming.Gateway(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	switch len(out.InternetGateways) {
	case 0:
		return "", nil
	case 1:
		return aws.ToString(out.InternetGateways[0].InternetGatewayId), nil
	default:
		return "", fmt.Errorf("%d internet gateways tagged for cluster %q", len(out.InternetGateways), a.cfg.ClusterName)
	}
}

func (a *Adapter) createGateway(ctx context.Context, view *network.View) (string, error) {
	out, err := call(ctx, func() (*awsec2.CreateInternetGatewayOutput, error) {
		return a.clients.Network.CreateInternetGateway(ctx, &awsec2.CreateInternetGatewayInput{
			TagSpecifications: a.tagSpec(types.ResourceTypeInternetGateway, naming.Gateway(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	id := aws.ToString(out.InternetGateway.InternetGatewayId)

	_, err = call(ctx, func() (*awsec2.AttachInternetGatewayOutput, error) {
		return a.clients.Network.AttachInternetGateway(ctx, &awsec2.AttachInternetGatewayInput{
			InternetGatewayId: aws.String(id),
			VpcId:             aws.String(view.NetworkID),
		})
	})
	if err != nil {
		return id, fmt.Errorf("attach gateway %s: %w", id, err)
	}
	return id, nil
}

// deleteGateway detaches the gateway from whatever VPCs it is attached to
// before deleting it.
func (a *Adapter) deleteGateway(ctx context.Context, id string) error {
	out, err := call(ctx, func() (*awsec2.DescribeInternetGatewaysOutput, error) {
		return a.clients.Network.DescribeInternetGateways(ctx, &awsec2.DescribeInternetGatewaysInput{
			InternetGatewayIds: []string{id},
		})
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, igw := range out.InternetGateways {
		for _, att := range igw.Attachments {
			vpcID := aws.ToString(att.VpcId)
			_, err := call(ctx, func() (*awsec2.DetachInternetGatewayOutput, error) {
				return a.clients.Network.DetachInternetGateway(ctx, &awsec2.DetachInternetGatewayInput{
					InternetGatewayId: aws.String(id),
					VpcId:             aws.String(vpcID),
				})
			})
			if err != nil && !isNotFound(err) {
				return fmt.Errorf("detach from %s: %w", vpcID, err)
			}
		}
	}

	_, err = call(ctx, func() (*awsec2.DeleteInternetGatewayOutput, error) {
		return a.clients.Network.DeleteInternetGateway(ctx, &awsec2.DeleteInternetGatewayInput{InternetGatewayId: aws.String(id)})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (a *Adapter) findRouteTable(ctx context.Context) (string, error) {
	out, err := call(ctx, func() (*awsec2.DescribeRouteTablesOutput, error) {
		return a.clients.Network.DescribeRouteTables(ctx, &awsec2.DescribeRouteTablesInput{
			Filters: a.nameFilters(naming.RouteTable(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	switch len(out.RouteTables) {
	case 0:
		return "", nil
	case 1:
		return aws.ToString(out.RouteTables[0].RouteTableId), nil
	default:
		return "", fmt.Errorf("%d route tables tagged for cluster %q", len(out.RouteTables), a.cfg.ClusterName)
	}
}

func (a *Adapter) createRouteTable(ctx context.Context, view *network.View) (string, error) {
	out, err := call(ctx, func() (*awsec2.CreateRouteTableOutput, error) {
		return a.clients.Network.CreateRouteTable(ctx, &awsec2.CreateRouteTableInput{
			VpcId:             aws.String(view.NetworkID),
			TagSpecifications: a.tagSpec(types.ResourceTypeRouteTable, naming.RouteTable(a.cfg.ClusterName)),
		})
	})
	if err != nil {
		return "", err
	}
	id := aws.ToString(out.RouteTable.RouteTableId)

	_, err = call(ctx, func() (*awsec2.CreateRouteOutput, error) {
		return a.clients.Network.CreateRoute(ctx, &awsec2.CreateRouteInput{
			RouteTableId:         aws.String(id),
			DestinationCidrBlock: aws.String(worldCIDR),
			GatewayId:            aws.String(view.GatewayID),
		})
	})
	if err != nil {
		return id, fmt.Errorf("add default route on %s: %w", id, err)
	}

	_, err = call(ctx, func() (*awsec2.AssociateRouteTableOutput, error) {
		return a.clients.Network.AssociateRouteTable(ctx, &awsec2.AssociateRouteTableInput{
			RouteTableId: aws.String(id),
			SubnetId:     aws.String(view.SubnetID),
		})
	})
	if err != nil {
		return id, fmt.Errorf("associate %s with subnet: %w", id, err)
	}
	return id, nil
}

// deleteRouteTable drops the subnet associations first; the main
// association belongs to the VPC and is never ours to remove.
func (a *Adapter) deleteRouteTable(ctx context.Context, id string) error {
	out, err := call(ctx, func() (*awsec2.DescribeRouteTablesOutput, error) {
		return a.clients.Network.DescribeRouteTables(ctx, &awsec2.DescribeRouteTablesInput{
			RouteTableIds: []string{id},
		})
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, rt := range out.RouteTables {
		for _, assoc := range rt.Associations {
			if aws.ToBool(assoc.Main) {
				continue
			}
			assocID := aws.ToString(assoc.RouteTableAssociationId)
			_, err := call(ctx, func() (*awsec2.DisassociateRouteTableOutput, error) {
				return a.clients.Network.DisassociateRouteTable(ctx, &awsec2.DisassociateRouteTableInput{
					AssociationId: aws.String(assocID),
				})
			})
			if err != nil && !isNotFound(err) {
				return fmt.Errorf("disassociate %s: %w", assocID, err)
			}
		}
	}

	_, err = call(ctx, func() (*awsec2.DeleteRouteTableOutput, error) {
		return a.clients.Network.DeleteRouteTable(ctx, &awsec2.DeleteRouteTableInput{RouteTableId: aws.String(id)})
	})
	if isNotFound(err) {
		return nil
	}
	return err
}
