package categorize

// Rule maps a set of description keywords onto a category name.
type Rule struct {
	Keywords []string
	Category string
}

// rules is evaluated in order; the first keyword hit wins, so broader
// categories (e.g. "Empréstimos" matching "credito") deliberately come last.
var rules = []Rule{
	{
		Keywords: []string{"restaurante", "lanchonete", "padaria", "supermercado", "mercado", "ifood", "uber eats", "rappi", "cafe", "pizzaria", "hamburgueria", "açougue", "hortifruti", "feira"},
		Category: "Alimentação",
	},
	{
		Keywords: []string{"uber", "taxi", "99", "posto", "combustivel", "gasolina", "alcool", "ipva", "estacionamento", "pedagio", "metrô", "onibus", "estac"},
		Category: "Transporte",
	},
	{
		Keywords: []string{"aluguel", "condominio", "agua", "luz", "energia", "gas", "internet", "telefone", "iptu", "conserto", "reforma", "manutencao"},
		Category: "Moradia",
	},
	{
		Keywords: []string{"farmacia", "drogaria", "medico", "hospital", "clinica", "laboratorio", "exame", "consulta", "plano de saude", "convenio", "dentista", "psicologo"},
		Category: "Saúde",
	},
	{
		Keywords: []string{"escola", "faculdade", "universidade", "curso", "livro", "livraria", "material escolar", "mensalidade", "matricula", "apostila"},
		Category: "Educação",
	},
	{
		Keywords: []string{"cinema", "teatro", "show", "evento", "festa", "bar", "balada", "clube", "academia", "streaming", "netflix", "spotify", "amazon prime", "disney", "youtube"},
		Category: "Lazer",
	},
	{
		Keywords: []string{"roupa", "calçado", "sapato", "tenis", "loja", "boutique", "magazine", "zara", "renner", "c&a", "riachuelo"},
		Category: "Vestuário",
	},
	{
		Keywords: []string{"notebook", "celular", "computador", "mouse", "teclado", "software", "app", "google", "apple", "microsoft", "adobe"},
		Category: "Tecnologia",
	},
	{
		Keywords: []string{"salao", "cabelereiro", "barbeiro", "manicure", "lavanderia", "lavagem", "correios", "cartorio", "despachante"},
		Category: "Serviços",
	},
	{
		Keywords: []string{"hotel", "pousada", "hospedagem", "passagem", "aeroporto", "viagem", "turismo", "decolar", "latam", "gol", "azul"},
		Category: "Viagem",
	},
	{
		Keywords: []string{"imposto", "taxa", "multa", "ir", "darf", "inss", "fgts", "pis", "cofins"},
		Category: "Impostos e Taxas",
	},
	{
		Keywords: []string{"seguro", "seguradora", "apolice"},
		Category: "Seguros",
	},
	{
		Keywords: []string{"investimento", "aplicacao", "poupanca", "tesouro", "cdb", "lci", "lca", "fundo", "acao", "bolsa", "corretora"},
		Category: "Investimentos",
	},
	{
		Keywords: []string{"salario", "pagamento", "receita", "venda", "comissao", "bonus", "freelance", "prestacao de servico"},
		Category: "Salário e Receitas",
	},
	{
		Keywords: []string{"emprestimo", "financiamento", "prestacao", "parcela", "credito"},
		Category: "Empréstimos",
	},
}
