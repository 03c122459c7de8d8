package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/atinyakov/shortify/internal/models"
)

// Client calls shortify.v1.Links over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Create(ctx context.Context, req models.CreateRequest) (models.CreateResponse, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"url":         structpb.NewStringValue(req.URL),
		"alias":       structpb.NewStringValue(req.Alias),
		"aiGenerated": structpb.NewBoolValue(req.AIGenerated),
	}}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Create", in, out); err != nil {
		return models.CreateResponse{}, err
	}

	f := out.GetFields()
	return models.CreateResponse{
		Record: recordFromStruct(f["record"].GetStructValue()),
		Notice: f["notice"].GetStringValue(),
	}, nil
}

func (c *Client) Suggest(ctx context.Context, url string) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Suggest", wrapperspb.String(url), out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *Client) List(ctx context.Context) ([]models.LinkRecord, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/List", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return recordsFromList(out), nil
}

func (c *Client) Delete(ctx context.Context, id string) ([]models.LinkRecord, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Delete", wrapperspb.String(id), out); err != nil {
		return nil, err
	}
	return recordsFromList(out), nil
}

func (c *Client) Resolve(ctx context.Context, alias string) (models.LinkRecord, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Resolve", wrapperspb.String(alias), out); err != nil {
		return models.LinkRecord{}, err
	}
	return recordFromStruct(out), nil
}
