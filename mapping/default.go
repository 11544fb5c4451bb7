package mapping

// Column titles of the default report.
const (
	ColumnNumber       = "Número NF"
	ColumnSeries       = "Série"
	ColumnIssuedAt     = "Data Emissão"
	ColumnType         = "Tipo NF"
	ColumnIssuerCNPJ   = "CNPJ Emitente"
	ColumnIssuer       = "Emitente"
	ColumnProductCode  = "Código Produto"
	ColumnDescription  = "Descrição Produto"
	ColumnCFOP         = "CFOP"
	ColumnNCM          = "NCM"
	ColumnQuantity     = "Quantidade"
	ColumnUnitValue    = "Valor Unitário"
	ColumnItemTotal    = "Valor Total Item"
	ColumnReturnReason = "Motivo Retorno"
	ColumnAccessKey    = "Chave de Acesso"
)

// Default returns the standard invoice report table.
func Default() *Table {
	t, err := NewTable(
		Field{Title: ColumnNumber, Scope: ScopeHeader, Path: MustParsePath("ide|nNF")},
		Field{Title: ColumnSeries, Scope: ScopeHeader, Path: MustParsePath("ide|serie")},
		Field{Title: ColumnIssuedAt, Scope: ScopeHeader, Path: MustParsePath("ide|dhEmi")},
		Field{Title: ColumnType, Scope: ScopeHeader, Path: MustParsePath("ide|tpNF")},
		Field{Title: ColumnIssuerCNPJ, Scope: ScopeHeader, Path: MustParsePath("emit|CNPJ")},
		Field{Title: ColumnIssuer, Scope: ScopeHeader, Path: MustParsePath("emit|xNome")},
		Field{Title: ColumnProductCode, Scope: ScopeItem, Path: MustParsePath("prod|cProd")},
		Field{Title: ColumnDescription, Scope: ScopeItem, Path: MustParsePath("prod|xProd")},
		Field{Title: ColumnCFOP, Scope: ScopeItem, Path: MustParsePath("prod|CFOP")},
		Field{Title: ColumnNCM, Scope: ScopeItem, Path: MustParsePath("prod|NCM")},
		Field{Title: ColumnQuantity, Scope: ScopeItem, Path: MustParsePath("prod|qCom")},
		Field{Title: ColumnUnitValue, Scope: ScopeItem, Path: MustParsePath("prod|vUnCom")},
		Field{Title: ColumnItemTotal, Scope: ScopeItem, Path: MustParsePath("prod|vProd")},
		Field{Title: ColumnReturnReason, Scope: ScopeSynthetic, Synthetic: ReturnReason, Path: MustParsePath("infProt|xMotivo")},
		Field{Title: ColumnAccessKey, Scope: ScopeSynthetic, Synthetic: AccessKey},
	)
	if err != nil {
		panic(err)
	}
	return t
}
