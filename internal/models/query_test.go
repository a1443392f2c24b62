package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *SearchRequest
		wantErr bool
		want    string
	}{
		{"empty query", &SearchRequest{Query: ""}, true, ""},
		{"blank query", &SearchRequest{Query: "   \t"}, true, ""},
		{"valid query", &SearchRequest{Query: "dano moral"}, false, "dano moral"},
		{"trims query", &SearchRequest{Query: "  Tema 123 "}, false, "Tema 123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrEmptyQuery {
				t.Errorf("Validate() error = %v, want ErrEmptyQuery", err)
			}
			if !tt.wantErr && tt.req.Query != tt.want {
				t.Errorf("Query = %q, want %q", tt.req.Query, tt.want)
			}
		})
	}
}

func TestSearchRequest_Categories(t *testing.T) {
	req := &SearchRequest{Branches: []string{"federal", "bogus", "Superior", "federal"}}
	got := req.Categories()
	if len(got) != 2 || got[0] != CategoryFederal || got[1] != CategorySuperior {
		t.Errorf("Categories() = %v", got)
	}
}

func TestSearchRequest_PinnedSet(t *testing.T) {
	req := &SearchRequest{Courts: []string{"stf", " ", "trf1 "}}
	set := req.PinnedSet()
	if len(set) != 2 || !set["stf"] || !set["trf1"] {
		t.Errorf("PinnedSet() = %v", set)
	}
}

func TestSearchRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want SearchRequest
	}{
		{
			name: "arrays of strings",
			body: `{"query":"dano moral","branches":["federal"],"courts":["stj","trf1"]}`,
			want: SearchRequest{Query: "dano moral", Branches: []string{"federal"}, Courts: []string{"stj", "trf1"}},
		},
		{
			name: "scalar branches and courts are ignored",
			body: `{"query":"dano moral","branches":"superior","courts":"stj"}`,
			want: SearchRequest{Query: "dano moral"},
		},
		{
			name: "non-string elements are dropped",
			body: `{"query":"x","branches":["superior",1,null,{"a":1}],"courts":[true,"stf"]}`,
			want: SearchRequest{Query: "x", Branches: []string{"superior"}, Courts: []string{"stf"}},
		},
		{
			name: "non-string query becomes empty",
			body: `{"query":42,"courts":null}`,
			want: SearchRequest{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SearchRequest
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearchRequest_UnmarshalJSONInvalid(t *testing.T) {
	var req SearchRequest
	if err := json.Unmarshal([]byte(`{"query":`), &req); err == nil {
		t.Error("Unmarshal() of truncated JSON should fail")
	}
	if err := json.Unmarshal([]byte(`["dano moral"]`), &req); err == nil {
		t.Error("Unmarshal() of an array should fail")
	}
}
