package domain

// Company is one row of the empresas registry table. Reference data,
// loaded by ingestion and never mutated by the query path.
type Company struct {
	CNPJBasico       string
	RazaoSocial      string
	NaturezaJuridica string
	CapitalSocial    string
	Porte            string
	CNAEPrincipal    string
	CNAESecundaria   string
}

// Establishment is one physical registration (headquarters or branch)
// under a company. MatrizFilial is "1" for headquarters, "2" for branches.
type Establishment struct {
	CNPJBasico    string
	CNPJOrdem     string
	MatrizFilial  string
	NomeFantasia  string
	Logradouro    string
	Numero        string
	Complemento   string
	Bairro        string
	CEP           string
	Municipio     string
	UF            string
	DDD1          string
	Telefone1     string
	DDDFax        string
	Fax           string
	Email         string
	CNAEPrincipal string
}

type Address struct {
	Logradouro string `json:"logradouro"`
	Numero     string `json:"numero"`
	Bairro     string `json:"bairro"`
	Municipio  string `json:"municipio"`
	UF         string `json:"uf"`
}

type BranchCount struct {
	Filiais int `json:"filiais"`
}

// TaxRegimeEntry is one Simples Nacional opt-in record.
type TaxRegimeEntry struct {
	OpcaoSimples    string `json:"opcao_simples"`
	DataOpcao       string `json:"data_opcao"`
	DataExclusao    string `json:"data_exclusao,omitempty"`
	OpcaoMEI        string `json:"opcao_mei,omitempty"`
	DataOpcaoMEI    string `json:"data_opcao_mei,omitempty"`
	DataExclusaoMEI string `json:"data_exclusao_mei,omitempty"`
}

type Partner struct {
	Nome         string `json:"nome_socio"`
	Qualificacao string `json:"qualificacao"`
	DataEntrada  string `json:"data_entrada"`
}

// LegalNature carries left-join semantics: Descricao stays empty when the
// reference table has no row for the code.
type LegalNature struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao,omitempty"`
}

type Activities struct {
	Principal          string            `json:"cnae_principal"`
	PrincipalDescricao string            `json:"cnae_principal_descricao,omitempty"`
	Secundarias        []string          `json:"cnaes_secundarias,omitempty"`
	SecundariasDesc    map[string]string `json:"cnaes_secundarias_descricoes,omitempty"`
}

// Contact assembles phone/fax only when both the area code and the number
// are present; otherwise the field stays empty.
type Contact struct {
	Telefone string `json:"telefone,omitempty"`
	Fax      string `json:"fax,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SimilarCompany is one entry of a similarity ranking, score in [0, 1].
type SimilarCompany struct {
	CNPJBasico  string  `json:"cnpj_basico"`
	RazaoSocial string  `json:"razao_social"`
	Score       float64 `json:"score"`
}

// SimplesRecord is one ingested Simples Nacional row.
type SimplesRecord struct {
	CNPJBasico      string
	OpcaoSimples    string
	DataOpcao       string
	DataExclusao    string
	OpcaoMEI        string
	DataOpcaoMEI    string
	DataExclusaoMEI string
}

// PartnerRecord is one ingested socios row.
type PartnerRecord struct {
	CNPJBasico   string
	Nome         string
	Qualificacao string
	DataEntrada  string
}

// ReferenceCode is one code/description pair of a reference table
// (naturezas, cnaes).
type ReferenceCode struct {
	Codigo    string
	Descricao string
}

// Intent is the closed set of question categories the dispatcher routes on.
// The values match the labels the classifier emits.
type Intent string

const (
	IntentAddress    Intent = "local"
	IntentBranches   Intent = "filial"
	IntentSimilarity Intent = "cnae_sim"
	IntentFallback   Intent = "rag"
)

// Classification is the dispatcher's routing decision: an intent plus the
// company name extracted from the question, when one was present.
type Classification struct {
	Intent  Intent `json:"intent"`
	Company string `json:"empresa,omitempty"`
}

// Answer is the structured result of one question; exactly one of the
// payload fields is set according to Kind.
type Answer struct {
	Kind     Intent           `json:"-"`
	Address  *Address         `json:"address,omitempty"`
	Branches *BranchCount     `json:"branches,omitempty"`
	Similar  []SimilarCompany `json:"similar,omitempty"`
	SQL      string           `json:"sql,omitempty"`
	Text     string           `json:"answer,omitempty"`
}

// CompanyProfile aggregates the fact-retrieval family for one company.
// Optional sections are omitted when the registry has no data for them.
type CompanyProfile struct {
	CNPJBasico   string           `json:"cnpj_basico"`
	RazaoSocial  string           `json:"razao_social"`
	NaturezaJur  LegalNature      `json:"natureza_juridica"`
	Endereco     *Address         `json:"endereco,omitempty"`
	Filiais      int              `json:"filiais"`
	Atividades   Activities       `json:"atividades"`
	Contato      Contact          `json:"contato"`
	Simples      []TaxRegimeEntry `json:"simples,omitempty"`
	Socios       []Partner        `json:"socios,omitempty"`
}

// HistoryTurn is one recorded question/answer exchange in a chat session.
type HistoryTurn struct {
	Session  string `json:"session"`
	Question string `json:"question"`
	Response string `json:"response"`
	Unix     int64  `json:"unix"`
}
