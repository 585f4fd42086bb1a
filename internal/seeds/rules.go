// Package seeds provides the default automation rules installed on startup.
package seeds

import (
	"github.com/bizmate/automation/internal/models"
)

// Default returns the built-in rule set. Callers receive fresh copies and may
// mutate them freely.
func Default() []*models.Rule {
	return []*models.Rule{
		{
			ID:          "auto-create-project",
			Name:        "Auto-create project for large deals",
			Description: "Spins up a project and notifies the owner when a deal above $5k closes",
			Trigger:     models.TriggerOpportunityWon,
			Conditions: []models.Condition{
				{Field: "value", Operator: models.OperatorGreaterThan, Value: 5000, DataType: "number"},
			},
			Actions: []models.Action{
				{
					Type: models.ActionCreateProject,
					Parameters: map[string]interface{}{
						"name":      "{{title}}",
						"client_id": "{{clientId}}",
						"status":    "planning",
					},
				},
				{
					Type: models.ActionSendNotification,
					Parameters: map[string]interface{}{
						"user_id":  "{{assignedTo}}",
						"title":    "Project created",
						"message":  "A project was created for {{title}}",
						"severity": "info",
					},
				},
			},
			IsActive: true,
			Priority: 10,
		},
		{
			ID:          "client-onboarding",
			Name:        "New client onboarding",
			Description: "Creates a kickoff task and flags the client as onboarding",
			Trigger:     models.TriggerClientCreated,
			Actions: []models.Action{
				{
					Type: models.ActionCreateTask,
					Parameters: map[string]interface{}{
						"title":       "Kickoff call with {{name}}",
						"description": "Schedule the onboarding call for the new client",
						"assigned_to": "{{accountManager}}",
						"priority":    "high",
					},
				},
				{
					Type: models.ActionUpdateClientStatus,
					Parameters: map[string]interface{}{
						"client_id": "{{clientId}}",
						"status":    "onboarding",
					},
				},
				{
					Type: models.ActionLogAuditEvent,
					Parameters: map[string]interface{}{
						"actor_id":    "system",
						"action":      "client_onboarding_started",
						"resource":    "client",
						"resource_id": "{{clientId}}",
					},
				},
			},
			IsActive: true,
			Priority: 5,
		},
		{
			ID:          "overdue-task-escalation",
			Name:        "Escalate overdue high-priority tasks",
			Description: "Notifies the assignee when a high or urgent task slips past its due date",
			Trigger:     models.TriggerTaskOverdue,
			Conditions: []models.Condition{
				{Field: "priority", Operator: models.OperatorIn, Value: []interface{}{"high", "urgent"}, DataType: "string"},
			},
			Actions: []models.Action{
				{
					Type: models.ActionSendNotification,
					Parameters: map[string]interface{}{
						"user_id":  "{{assignedTo}}",
						"title":    "Task overdue",
						"message":  "Task {{title}} is past its due date",
						"severity": "warning",
					},
				},
				{
					Type: models.ActionSendEmail,
					Parameters: map[string]interface{}{
						"to":       "{{assigneeEmail}}",
						"subject":  "Overdue task: {{title}}",
						"template": "task_overdue",
					},
					RetryCount: 2,
				},
			},
			IsActive: true,
			Priority: 8,
		},
		{
			ID:          "ticket-escalation-alert",
			Name:        "Ticket escalation alert",
			Description: "Posts to the support channel and pings the ticket owner on escalation",
			Trigger:     models.TriggerTicketEscalated,
			Actions: []models.Action{
				{
					Type: models.ActionSendChatMessage,
					Parameters: map[string]interface{}{
						"channel": "support",
						"text":    "Ticket {{ticketId}} escalated: {{subject}}",
					},
				},
				{
					Type: models.ActionSendNotification,
					Parameters: map[string]interface{}{
						"user_id":  "{{assignedTo}}",
						"title":    "Ticket escalated",
						"message":  "Ticket {{ticketId}} needs immediate attention",
						"severity": "critical",
					},
				},
			},
			IsActive: true,
			Priority: 9,
		},
		{
			ID:          "deadline-reminder",
			Name:        "Project deadline reminder",
			Description: "Reminds the delivery channel when a project deadline is close",
			Trigger:     models.TriggerProjectDeadlineApproaching,
			Actions: []models.Action{
				{
					Type: models.ActionSendChatMessage,
					Parameters: map[string]interface{}{
						"channel": "delivery",
						"text":    "Project {{project.name}} is due {{project.deadline}}",
					},
				},
			},
			IsActive: true,
			Priority: 3,
		},
		{
			ID:          "invoice-overdue-chase",
			Name:        "Chase overdue invoices",
			Description: "Emails the client contact when an invoice goes unpaid past its due date",
			Trigger:     models.TriggerInvoiceOverdue,
			Actions: []models.Action{
				{
					Type: models.ActionSendEmail,
					Parameters: map[string]interface{}{
						"to":       "{{contactEmail}}",
						"subject":  "Invoice {{invoiceNumber}} is overdue",
						"template": "invoice_overdue",
					},
					RetryCount: 3,
				},
				{
					Type: models.ActionLogAuditEvent,
					Parameters: map[string]interface{}{
						"actor_id":    "system",
						"action":      "invoice_chase_sent",
						"resource":    "invoice",
						"resource_id": "{{invoiceId}}",
					},
				},
			},
			IsActive: true,
			Priority: 6,
		},
	}
}
