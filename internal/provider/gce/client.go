package gce

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/vmcli/vmcli/internal/config"
)

// Narrow views of the compute API, one per concern. The real implementations
// wrap the generated services with the configured project baked in, so the
// adapter code never threads it around.

type InstanceAPI interface {
	List(ctx context.Context, zone, filter, pageToken string) (*compute.InstanceList, error)
	Get(ctx context.Context, zone, name string) (*compute.Instance, error)
	Insert(ctx context.Context, zone string, inst *compute.Instance) (*compute.Operation, error)
	Delete(ctx context.Context, zone, name string) (*compute.Operation, error)
	Reset(ctx context.Context, zone, name string) (*compute.Operation, error)
}

type NetworkAPI interface {
	Get(ctx context.Context, name string) (*compute.Network, error)
	Insert(ctx context.Context, net *compute.Network) (*compute.Operation, error)
	Delete(ctx context.Context, name string) (*compute.Operation, error)
}

type SubnetworkAPI interface {
	Get(ctx context.Context, region, name string) (*compute.Subnetwork, error)
	Insert(ctx context.Context, region string, subnet *compute.Subnetwork) (*compute.Operation, error)
	Delete(ctx context.Context, region, name string) (*compute.Operation, error)
}

type FirewallAPI interface {
	Get(ctx context.Context, name string) (*compute.Firewall, error)
	List(ctx context.Context, pageToken string) (*compute.FirewallList, error)
	Insert(ctx context.Context, fw *compute.Firewall) (*compute.Operation, error)
	Delete(ctx context.Context, name string) (*compute.Operation, error)
}

type ImageAPI interface {
	GetFromFamily(ctx context.Context, project, family string) (*compute.Image, error)
}

type RegionAPI interface {
	List(ctx context.Context, pageToken string) (*compute.RegionList, error)
}

type ZoneAPI interface {
	List(ctx context.Context, pageToken string) (*compute.ZoneList, error)
}

// OperationAPI waits for compute operations. Wait blocks server-side for up
// to two minutes and returns the operation in whatever state it reached.
type OperationAPI interface {
	WaitZone(ctx context.Context, zone, name string) (*compute.Operation, error)
	WaitRegion(ctx context.Context, region, name string) (*compute.Operation, error)
	WaitGlobal(ctx context.Context, name string) (*compute.Operation, error)
}

// Clients bundles the API surfaces the adapter needs.
type Clients struct {
	Instances   InstanceAPI
	Networks    NetworkAPI
	Subnetworks SubnetworkAPI
	Firewalls   FirewallAPI
	Images      ImageAPI
	Regions     RegionAPI
	Zones       ZoneAPI
	Operations  OperationAPI
}

// NewAdapter builds the adapter for one resolved cluster config with a real
// compute service. Credentials come from the service account key file named
// by GOOGLE_APPLICATION_CREDENTIALS; the config layer has already checked
// that project and zone are set.
func NewAdapter(ctx context.Context, cfg *config.Effective) (*Adapter, error) {
	if err := config.ValidateEnv(config.ProviderGCE); err != nil {
		return nil, err
	}
	svc, err := compute.NewService(ctx, option.WithCredentialsFile(os.Getenv(config.EnvGoogleCredentials)))
	if err != nil {
		return nil, fmt.Errorf("creating compute service: %w", err)
	}
	p := cfg.Project
	return New(cfg, &Clients{
		Instances:   &instanceClient{project: p, svc: svc.Instances},
		Networks:    &networkClient{project: p, svc: svc.Networks},
		Subnetworks: &subnetworkClient{project: p, svc: svc.Subnetworks},
		Firewalls:   &firewallClient{project: p, svc: svc.Firewalls},
		Images:      &imageClient{svc: svc.Images},
		Regions:     &regionClient{project: p, svc: svc.Regions},
		Zones:       &zoneClient{project: p, svc: svc.Zones},
		Operations: &operationClient{
			project: p,
			zone:    svc.ZoneOperations,
			region:  svc.RegionOperations,
			global:  svc.GlobalOperations,
		},
	}), nil
}

// New wires an adapter from explicit clients.
func New(cfg *config.Effective, clients *Clients) *Adapter {
	return &Adapter{
		cfg:         cfg,
		clients:     clients,
		waitTimeout: 5 * time.Minute,
	}
}

type instanceClient struct {
	project string
	svc     *compute.InstancesService
}

func (c *instanceClient) List(ctx context.Context, zone, filter, pageToken string) (*compute.InstanceList, error) {
	call := c.svc.List(c.project, zone).Context(ctx)
	if filter != "" {
		call = call.Filter(filter)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (c *instanceClient) Get(ctx context.Context, zone, name string) (*compute.Instance, error) {
	return c.svc.Get(c.project, zone, name).Context(ctx).Do()
}

func (c *instanceClient) Insert(ctx context.Context, zone string, inst *compute.Instance) (*compute.Operation, error) {
	return c.svc.Insert(c.project, zone, inst).Context(ctx).Do()
}

func (c *instanceClient) Delete(ctx context.Context, zone, name string) (*compute.Operation, error) {
	return c.svc.Delete(c.project, zone, name).Context(ctx).Do()
}

func (c *instanceClient) Reset(ctx context.Context, zone, name string) (*compute.Operation, error) {
	return c.svc.Reset(c.project, zone, name).Context(ctx).Do()
}

type networkClient struct {
	project string
	svc     *compute.NetworksService
}

func (c *networkClient) Get(ctx context.Context, name string) (*compute.Network, error) {
	return c.svc.Get(c.project, name).Context(ctx).Do()
}

func (c *networkClient) Insert(ctx context.Context, net *compute.Network) (*compute.Operation, error) {
	return c.svc.Insert(c.project, net).Context(ctx).Do()
}

func (c *networkClient) Delete(ctx context.Context, name string) (*compute.Operation, error) {
	return c.svc.Delete(c.project, name).Context(ctx).Do()
}

type subnetworkClient struct {
	project string
	svc     *compute.SubnetworksService
}

func (c *subnetworkClient) Get(ctx context.Context, region, name string) (*compute.Subnetwork, error) {
	return c.svc.Get(c.project, region, name).Context(ctx).Do()
}

func (c *subnetworkClient) Insert(ctx context.Context, region string, subnet *compute.Subnetwork) (*compute.Operation, error) {
	return c.svc.Insert(c.project, region, subnet).Context(ctx).Do()
}

func (c *subnetworkClient) Delete(ctx context.Context, region, name string) (*compute.Operation, error) {
	return c.svc.Delete(c.project, region, name).Context(ctx).Do()
}

type firewallClient struct {
	project string
	svc     *compute.FirewallsService
}

func (c *firewallClient) Get(ctx context.Context, name string) (*compute.Firewall, error) {
	return c.svc.Get(c.project, name).Context(ctx).Do()
}

func (c *firewallClient) List(ctx context.Context, pageToken string) (*compute.FirewallList, error) {
	call := c.svc.List(c.project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (c *firewallClient) Insert(ctx context.Context, fw *compute.Firewall) (*compute.Operation, error) {
	return c.svc.Insert(c.project, fw).Context(ctx).Do()
}

func (c *firewallClient) Delete(ctx context.Context, name string) (*compute.Operation, error) {
	return c.svc.Delete(c.project, name).Context(ctx).Do()
}

type imageClient struct {
	svc *compute.ImagesService
}

func (c *imageClient) GetFromFamily(ctx context.Context, project, family string) (*compute.Image, error) {
	return c.svc.GetFromFamily(project, family).Context(ctx).Do()
}

type regionClient struct {
	project string
	svc     *compute.RegionsService
}

func (c *regionClient) List(ctx context.Context, pageToken string) (*compute.RegionList, error) {
	call := c.svc.List(c.project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

type zoneClient struct {
	project string
	svc     *compute.ZonesService
}

func (c *zoneClient) List(ctx context.Context, pageToken string) (*compute.ZoneList, error) {
	call := c.svc.List(c.project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

type operationClient struct {
	project string
	zone    *compute.ZoneOperationsService
	region  *compute.RegionOperationsService
	global  *compute.GlobalOperationsService
}

func (c *operationClient) WaitZone(ctx context.Context, zone, name string) (*compute.Operation, error) {
	return c.zone.Wait(c.project, zone, name).Context(ctx).Do()
}

func (c *operationClient) WaitRegion(ctx context.Context, region, name string) (*compute.Operation, error) {
	return c.region.Wait(c.project, region, name).Context(ctx).Do()
}

func (c *operationClient) WaitGlobal(ctx context.Context, name string) (*compute.Operation, error) {
	return c.global.Wait(c.project, name).Context(ctx).Do()
}
