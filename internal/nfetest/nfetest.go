// Package nfetest builds NFe XML fixtures for tests.
package nfetest

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Namespace is the invoice schema namespace used by fixtures.
const Namespace = "http://www.portalfiscal.inf.br/nfe"

// Item is a fixture line item.
type Item struct {
	Code        string
	Description string
	CFOP        string
	NCM         string
	Quantity    string
	UnitValue   string
	Total       string
	CST         string
}

// Invoice is a fixture document.
type Invoice struct {
	Key        string
	Number     string
	Series     string
	IssuedAt   string
	Type       string
	IssuerCNPJ string
	IssuerName string
	Reason     string
	Items      []Item
	NoProtocol bool
	Namespace  string
}

// Sample returns an outbound invoice with three line items.
func Sample() Invoice {
	return Invoice{
		Key:        "35240112345678000199550010000012341000012345",
		Number:     "1234",
		Series:     "1",
		IssuedAt:   "2024-01-15T10:30:00-03:00",
		Type:       "1",
		IssuerCNPJ: "12345678000199",
		IssuerName: "Comercial Exemplo LTDA",
		Reason:     "Autorizado o uso da NF-e",
		Items: []Item{
			{Code: "P001", Description: "Parafuso", CFOP: "5102", NCM: "73181500", Quantity: "10.0000", UnitValue: "1.5000", Total: "15.00", CST: "00"},
			{Code: "P002", Description: "Porca", CFOP: "5102", NCM: "73181600", Quantity: "20.0000", UnitValue: "0.5000", Total: "10.00", CST: "20"},
			{Code: "P003", Description: "Arruela", CFOP: "5405", NCM: "73182200", Quantity: "5.0000", UnitValue: "0.2500", Total: "1.25", CST: "60"},
		},
	}
}

// XML renders the invoice as an nfeProc document.
func (i Invoice) XML() []byte {
	ns := i.Namespace
	if ns == "" {
		ns = Namespace
	}
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<nfeProc xmlns="%s" versao="4.00"><NFe><infNFe versao="4.00"`, ns)
	if i.Key != "" {
		fmt.Fprintf(&b, ` Id="NFe%s"`, i.Key)
	}
	b.WriteString(`><ide>`)
	tag(&b, "serie", i.Series)
	tag(&b, "nNF", i.Number)
	tag(&b, "dhEmi", i.IssuedAt)
	tag(&b, "tpNF", i.Type)
	b.WriteString(`</ide><emit>`)
	tag(&b, "CNPJ", i.IssuerCNPJ)
	tag(&b, "xNome", i.IssuerName)
	b.WriteString(`</emit>`)
	for n, item := range i.Items {
		fmt.Fprintf(&b, `<det nItem="%d"><prod>`, n+1)
		tag(&b, "cProd", item.Code)
		tag(&b, "xProd", item.Description)
		tag(&b, "NCM", item.NCM)
		tag(&b, "CFOP", item.CFOP)
		tag(&b, "qCom", item.Quantity)
		tag(&b, "vUnCom", item.UnitValue)
		tag(&b, "vProd", item.Total)
		b.WriteString(`</prod><imposto><ICMS>`)
		if item.CST != "" {
			fmt.Fprintf(&b, `<ICMS%s>`, item.CST)
			tag(&b, "orig", "0")
			tag(&b, "CST", item.CST)
			fmt.Fprintf(&b, `</ICMS%s>`, item.CST)
		}
		b.WriteString(`</ICMS></imposto></det>`)
	}
	b.WriteString(`</infNFe></NFe>`)
	if !i.NoProtocol {
		b.WriteString(`<protNFe versao="4.00"><infProt>`)
		tag(&b, "chNFe", i.Key)
		tag(&b, "cStat", "100")
		tag(&b, "xMotivo", i.Reason)
		b.WriteString(`</infProt></protNFe>`)
	}
	b.WriteString(`</nfeProc>`)
	return b.Bytes()
}

func tag(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<" + name + ">")
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</" + name + ">")
}
