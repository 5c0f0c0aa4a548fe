package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateTicketTool(srv, svc)
	registerAssignTicketTool(srv, svc)
	registerChangeStatusTool(srv, svc)
	registerDeleteTicketTool(srv, svc)
	registerAddChatMessageTool(srv, svc)
	registerListTicketsTool(srv, svc)
	registerSearchTicketsTool(srv, svc)
	registerGetTicketTool(srv, svc)
	registerListAgentsTool(srv, svc)
	registerAgentMetricsTool(srv, svc)
	registerClientMetricsTool(srv, svc)
	registerExportCSVTool(srv, svc)
}

func registerCreateTicketTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_ticket",
		mcp.WithDescription("Submit a new support ticket. It starts open and unassigned."),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Short summary of the issue."),
		),
		mcp.WithString("description",
			mcp.Description("Longer description of the issue."),
		),
		mcp.WithString("priority",
			mcp.Description("Ticket priority, medium when omitted."),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithString("client_email",
			mcp.Description("Email of the reporting client."),
		),
		mcp.WithString("client_name",
			mcp.Description("Name of the reporting client, looked up from the email when omitted."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Subject     string `json:"subject"`
			Description string `json:"description"`
			Priority    string `json:"priority"`
			ClientEmail string `json:"client_email"`
			ClientName  string `json:"client_name"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.CreateTicket(ctx, CreateTicketOptions{
			Subject:     args.Subject,
			Description: args.Description,
			Priority:    args.Priority,
			ClientEmail: args.ClientEmail,
			ClientName:  args.ClientName,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAssignTicketTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"assign_ticket",
		mcp.WithDescription("Assign a ticket to a support agent."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ticket identifier."),
		),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("Agent identifier, e.g. agent1."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		agentID, err := request.RequireString("agent_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.AssignTicket(ctx, id, agentID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerChangeStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"change_status",
		mcp.WithDescription("Move a ticket to another lifecycle state."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ticket identifier."),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status."),
			mcp.Enum("open", "progress", "resolved"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := request.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ChangeStatus(ctx, id, status)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteTicketTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_ticket",
		mcp.WithDescription("Permanently delete a ticket."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ticket identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteTicket(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"id":      id,
			"deleted": true,
		})
	})
}

func registerAddChatMessageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_chat_message",
		mcp.WithDescription("Append a message to the conversation of a ticket."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ticket identifier."),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text."),
		),
		mcp.WithString("author",
			mcp.Description("Display name of the author."),
		),
		mcp.WithString("role",
			mcp.Description("Who is writing, agent when omitted."),
			mcp.Enum("client", "agent"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		message, err := request.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		author := request.GetString("author", "")
		role := request.GetString("role", "")

		dto, err := svc.AddChatMessage(ctx, id, author, role, message)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListTicketsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tickets",
		mcp.WithDescription("List tickets, most recent first, with optional filters."),
		mcp.WithString("status",
			mcp.Description("Only tickets in this status."),
			mcp.Enum("open", "progress", "resolved"),
		),
		mcp.WithString("priority",
			mcp.Description("Only tickets with this priority."),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithString("client_email",
			mcp.Description("Only tickets submitted by this client."),
		),
		mcp.WithString("agent_id",
			mcp.Description("Only tickets assigned to this agent."),
		),
		mcp.WithBoolean("unassigned",
			mcp.Description("Only tickets without an agent."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := ListOptions{
			Status:      strings.TrimSpace(request.GetString("status", "")),
			Priority:    strings.TrimSpace(request.GetString("priority", "")),
			ClientEmail: request.GetString("client_email", ""),
			AgentID:     request.GetString("agent_id", ""),
			Unassigned:  request.GetBool("unassigned", false),
		}
		results, err := svc.ListTickets(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"tickets": results,
			"count":   len(results),
		})
	})
}

func registerSearchTicketsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_tickets",
		mcp.WithDescription("Search tickets by substring match across subject, description and client."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tickets to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchTickets(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetTicketTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_ticket",
		mcp.WithDescription("Fetch a single ticket with its history and conversation."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ticket identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.TicketByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListAgentsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_agents",
		mcp.WithDescription("List support agents."),
		mcp.WithBoolean("active_only",
			mcp.Description("Only agents that can take assignments."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agents, err := svc.ListAgents(ctx, request.GetBool("active_only", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"agents": agents,
			"count":  len(agents),
		})
	})
}

func registerAgentMetricsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"agent_metrics",
		mcp.WithDescription("Ticket counts and resolution rate per active agent, plus unassigned tickets."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		m, err := svc.AgentMetrics(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"agents": m,
		})
	})
}

func registerClientMetricsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"client_metrics",
		mcp.WithDescription("Ticket counts by status for one client."),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Client email."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		email, err := request.RequireString("email")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		counts, err := svc.ClientMetrics(ctx, email)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"email":  email,
			"counts": counts,
		})
	})
}

func registerExportCSVTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_csv",
		mcp.WithDescription("Export every ticket as CSV text."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := svc.ExportCSV(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
