package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerTicketsResource(srv, svc)
	registerAgentsResource(srv, svc)
	registerMetricsResource(srv, svc)
	registerTicketTemplate(srv, svc)
	registerClientTicketsTemplate(srv, svc)
}

func registerTicketsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"helpdesk://tickets",
		"Tickets",
		mcp.WithResourceDescription("Every ticket, most recent first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tickets, err := svc.ListTickets(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"tickets": tickets,
			"count":   len(tickets),
		})
	})
}

func registerAgentsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"helpdesk://agents",
		"Agents",
		mcp.WithResourceDescription("Support agents and whether they are active."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		agents, err := svc.ListAgents(ctx, false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"agents": agents,
			"count":  len(agents),
		})
	})
}

func registerMetricsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"helpdesk://metrics",
		"Agent Metrics",
		mcp.WithResourceDescription("Workload and resolution rate per agent."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		m, err := svc.AgentMetrics(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"agents": m,
		})
	})
}

func registerTicketTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"helpdesk://tickets/{id}",
		"Ticket Details",
		mcp.WithTemplateDescription("A single ticket with its history and conversation."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id")
		if id == "" {
			return nil, fmt.Errorf("ticket id is required")
		}
		dto, err := svc.TicketByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"ticket": dto,
		})
	})
}

func registerClientTicketsTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"helpdesk://clients/{email}/tickets",
		"Client Tickets",
		mcp.WithTemplateDescription("Tickets submitted by one client."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		email := templateArg(request, "email")
		if email == "" {
			return nil, fmt.Errorf("client email is required")
		}
		tickets, err := svc.ListTickets(ctx, ListOptions{ClientEmail: email})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"email":   email,
			"tickets": tickets,
			"count":   len(tickets),
		})
	})
}

// templateArg reads a URI template variable. Matched variables may arrive as
// a string or a single-element list.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
