package entity

import "encoding/json"

// SourceMeta is the metadata stored on generated study items.
type SourceMeta struct {
	Sources  []string `json:"sources,omitempty"`
	Focus    string   `json:"focus,omitempty"`
	ModelKey string   `json:"model_key,omitempty"`
}

type AttachmentMeta struct {
	Kind       string `json:"kind,omitempty"`
	PageCount  *int   `json:"page_count,omitempty"`
	UploadedBy string `json:"uploaded_by,omitempty"`
}

type MindMapNode struct {
	Id       string         `json:"id"`
	Topic    string         `json:"topic"`
	Root     bool           `json:"root,omitempty"`
	Expanded *bool          `json:"expanded,omitempty"`
	Children []*MindMapNode `json:"children,omitempty"`
}

type MindMapData struct {
	NodeData *MindMapNode    `json:"nodeData"`
	LinkData json.RawMessage `json:"linkData,omitempty"`
}

// Normalize guarantees a root node so clients can always render the map.
func (d MindMapData) Normalize(id, title string) MindMapData {
	if d.NodeData != nil && d.NodeData.Topic != "" {
		d.NodeData.Root = true
		if d.NodeData.Id == "" {
			d.NodeData.Id = id
		}
		if len(d.LinkData) == 0 {
			d.LinkData = json.RawMessage("{}")
		}
		return d
	}
	topic := title
	if topic == "" {
		topic = "Mind map"
	}
	children := []*MindMapNode{}
	if d.NodeData != nil {
		children = d.NodeData.Children
	}
	return MindMapData{
		NodeData: &MindMapNode{Id: id, Topic: topic, Root: true, Children: children},
		LinkData: json.RawMessage("{}"),
	}
}
