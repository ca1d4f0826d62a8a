package store

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/notion"
)

// NotionSink writes each logged lead as a page in a Notion database.
type NotionSink struct {
	client notion.Client
	dbID   string
}

// NewNotionSink creates a sink targeting the given Notion database.
func NewNotionSink(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

func (n *NotionSink) LogLead(ctx context.Context, lead *model.Lead) error {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(n.dbID),
		},
		Properties: leadProperties(lead),
	}

	if _, err := n.client.CreatePage(ctx, req); err != nil {
		return eris.Wrapf(err, "notion sink: create page for %s", lead.Address)
	}
	return nil
}

func leadProperties(lead *model.Lead) notionapi.Properties {
	props := make(notionapi.Properties)

	props["Address"] = notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: lead.Address}},
		},
	}
	props["Owner"] = richText(lead.Owner)
	props["Status"] = richText(string(lead.Status))
	props["Source"] = richText(lead.Source)

	if lead.EstimatedValue > 0 {
		props["Estimated Value"] = notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: lead.EstimatedValue,
		}
	}
	if fa := lead.Analysis; fa != nil {
		props["Cap Rate"] = notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: fa.CapRate,
		}
		props["Risk Score"] = notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(fa.RiskScore),
		}
		props["Recommendation"] = richText(fa.Recommendation)
	}
	if lead.OutreachMessage != "" {
		props["Outreach"] = richText(truncateText(lead.OutreachMessage, 2000))
	}

	return props
}

func richText(content string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: content}},
		},
	}
}

// truncateText caps content at Notion's rich text length limit.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return fmt.Sprintf("%s...", s[:limit-3])
}
